// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go          — Handler с DI (репозитории, runner, реестр узлов)
//   - routes.go           — регистрация маршрутов
//   - middleware.go       — middleware (logging, recovery)
//   - response.go         — унифицированные JSON-ответы и обработка ошибок
//   - dto.go              — Data Transfer Objects (request/response)
//   - node_handler.go     — обработчики для /nodes
//   - workflow_handler.go — обработчики для /workflows
//   - run_handler.go      — обработчики для /runs
//
// API предоставляет REST endpoints для каталога типов узлов,
// управления workflows и запуска runs.
package api
