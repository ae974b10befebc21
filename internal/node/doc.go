// Package node содержит систему типизированных портов и абстракцию узла workflow.
//
// Включает:
//   - port.go     — типы данных портов и контракты InputPort/OutputPort
//   - node.go     — узел workflow: конфигурация, состояние, кэш результата
//   - registry.go — реестр типов узлов с фабриками и метаданными
//
// Узел — одна операция в workflow. Узлы объявляют входные и выходные
// порты и реализуют Execute; всё остальное (порядок, параллелизм,
// разрешение входов) — ответственность пакета engine.
package node
