// Package cli реализует инструмент командной строки SyncFlow.
//
// # Обзор
//
// CLI работает в двух режимах. Серверные команды (nodes, workflow
// list/create/show, run) обращаются к SyncFlow API по HTTP. Локальные
// команды (workflow check, workflow exec) загружают документ workflow
// из файла и валидируют или выполняют его in-process, без сервера и
// базы данных.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для SyncFlow API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и обработку ошибок. Response-типы дублируются из api/dto.go,
// чтобы клиент не зависел от серверных пакетов.
//
//	client := cli.NewClient("http://localhost:8080")
//	workflows, err := client.ListWorkflows()
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: syncflow run list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - nodes: list, show
//   - workflow: list, create, show, update, delete, validate, check, exec
//   - run: list, start, show
//   - watch: поток событий выполнения из RabbitMQ
//
// Каждая группа создаётся через фабричную функцию (NewWorkflowCmd и
// т.д.), принимающую clientFn и outputFn — замыкания для ленивого
// создания Client и Output после парсинга PersistentFlags.
package cli
