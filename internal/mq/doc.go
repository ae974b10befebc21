// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация событий выполнения
//   - consumer.go   — потребление сообщений из очередей
//   - events.go     — адаптер событий Executor'а к публикации в MQ
//
// Типы сообщений:
//   - run.started   — run начал выполняться
//   - node.finished — узел завершился (в любом состоянии)
//   - run.finished  — run завершён
//
// Exchanges:
//   - syncflow.events — события выполнения workflow
package mq
