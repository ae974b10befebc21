// Package runner выполняет сохранённые workflows в фоне.
//
// # Обзор
//
// Runner — прослойка между HTTP API и Executor'ом. Он отвечает за:
//
//   - Восстановление workflow из сохранённого документа
//   - Валидацию графа до создания run (плохой документ — ошибка запроса)
//   - Регистрацию run в истории запусков (PENDING → RUNNING → финал)
//   - Асинхронный запуск Executor'а под ID записи run
//
// Launch возвращает сразу после создания записи run; выполнение идёт
// в отдельной горутине. Wait применяется при graceful shutdown, чтобы
// дождаться активных запусков.
//
// Результаты узлов в историю не сохраняются — туда попадают только
// статусы, счётчики и ошибки.
package runner
