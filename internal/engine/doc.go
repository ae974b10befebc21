// Package engine содержит движок выполнения workflow.
//
// Включает:
//   - graph.go    — граф зависимостей и разбиение на уровни (Kahn)
//   - data.go     — DataManager: соединения, выходы узлов, временные директории
//   - cache.go    — кэш результатов по хэшу входов
//   - executor.go — Executor: bounded worker pool, изоляция отказов, агрегация
//
// Engine гарантирует: входы узла читаются только после завершения всех
// upstream-узлов (жёсткий барьер между уровнями); каждый узел выполняется
// не более одного раза на один ключ кэша; отказ узла никогда не роняет run.
package engine
