package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/syncflow/syncflow/internal/node"
	"github.com/syncflow/syncflow/internal/telemetry"
)

// Default configuration values.
const (
	defaultMaxWorkers = 4
)

// Result — агрегированный итог одного запуска workflow.
// Создаётся Executor'ом в конце run и далее не изменяется.
type Result struct {
	// RunID — идентификатор запуска.
	RunID uuid.UUID `json:"run_id"`

	// Success — true, если ни один узел не завершился с ошибкой.
	Success bool `json:"success"`

	// NodeResults — выходы успешно завершённых узлов (nodeID → outputs).
	NodeResults map[string]map[string]any `json:"node_results"`

	// Errors — ошибки узлов (nodeID → сообщение), включая пропущенные
	// узлы при политике cascade-skip.
	Errors map[string]string `json:"errors"`

	// Duration — длительность запуска.
	Duration time.Duration `json:"duration"`

	// TotalNodes — общее количество узлов в workflow.
	TotalNodes int `json:"total_nodes"`

	// CompletedNodes — количество успешно завершённых узлов.
	CompletedNodes int `json:"completed_nodes"`

	// FailedNodes — количество узлов, завершившихся с ошибкой.
	FailedNodes int `json:"failed_nodes"`

	// SkippedNodes — количество пропущенных узлов (cascade-skip).
	// При политике по умолчанию всегда 0.
	SkippedNodes int `json:"skipped_nodes"`
}

// LogEntry — запись журнала выполнения.
type LogEntry struct {
	NodeID    string    `json:"node_id"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Config — конфигурация Executor.
type Config struct {
	// MaxWorkers — ширина worker pool внутри уровня (default: 4).
	MaxWorkers int

	// DisableCache отключает кэширование результатов.
	DisableCache bool

	// CascadeSkip — пропускать зависимые узлы упавшего узла.
	// false (default): зависимые узлы всё равно запускаются и видят
	// соответствующие входы неразрешёнными.
	CascadeSkip bool

	// Cache — кэш результатов между запусками (default: NewMemoryCache).
	Cache Cache

	// Events — приёмник событий запуска (default: NopEvents).
	Events Events

	// WorkDir — базовая директория для рабочих директорий запусков
	// (default: системный temp).
	WorkDir string

	// Logger — логгер (default: slog.Default).
	Logger *slog.Logger
}

// Executor выполняет workflow.
//
// Узлы разбиваются на уровни по зависимостям; внутри уровня узлы
// выполняются параллельно через ограниченный worker pool, между
// уровнями — жёсткий барьер. Отказ узла изолируется: соседи по уровню
// продолжают выполняться, run доходит до конца.
type Executor struct {
	maxWorkers  int
	useCache    bool
	cascadeSkip bool
	cache       Cache
	events      Events
	workDir     string
	logger      *slog.Logger

	mu  sync.Mutex
	log []LogEntry
}

// New создаёт Executor.
func New(cfg Config) *Executor {
	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = defaultMaxWorkers
	}

	cache := cfg.Cache
	if cache == nil {
		cache = NewMemoryCache()
	}

	events := cfg.Events
	if events == nil {
		events = NopEvents{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{
		maxWorkers:  maxWorkers,
		useCache:    !cfg.DisableCache,
		cascadeSkip: cfg.CascadeSkip,
		cache:       cache,
		events:      events,
		workDir:     cfg.WorkDir,
		logger:      logger,
	}
}

// ExecuteWorkflow выполняет workflow целиком.
//
// Ошибка возвращается только для pre-flight условий (*GraphError:
// некорректное соединение или цикл) — run в этом случае не начинается.
// Отказы отдельных узлов попадают в Result.Errors.
func (e *Executor) ExecuteWorkflow(ctx context.Context, nodes map[string]*node.Node, conns []Connection) (*Result, error) {
	return e.ExecuteRun(ctx, uuid.New(), nodes, conns)
}

// ExecuteRun выполняет workflow под заранее известным runID.
// Используется, когда run уже зарегистрирован во внешней системе
// (например, в истории запусков) и его ID должен совпадать с ID
// в событиях и логах.
func (e *Executor) ExecuteRun(ctx context.Context, runID uuid.UUID, nodes map[string]*node.Node, conns []Connection) (*Result, error) {
	start := time.Now()

	// Pre-flight: соединения и структура графа.
	if err := ValidateConnections(nodes, conns); err != nil {
		return nil, err
	}

	dependencies := BuildDependencies(nodes, conns)

	levels, err := Levels(nodes, dependencies)
	if err != nil {
		return nil, err
	}

	workDir := ""
	if e.workDir != "" {
		workDir = filepath.Join(e.workDir, runID.String())
	}

	dm, err := NewDataManager(workDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := dm.Cleanup(); err != nil {
			e.logger.Warn("work dir cleanup failed", "run_id", runID, "error", err)
		}
	}()

	for _, conn := range conns {
		dm.AddConnection(conn)
	}

	logger := telemetry.WithRunID(e.logger, runID.String())
	logger.Info("run started",
		"total_nodes", len(nodes),
		"levels", len(levels),
		"max_workers", e.maxWorkers,
	)
	e.events.RunStarted(runID, len(nodes))

	results := make(map[string]map[string]any)
	errs := make(map[string]string)
	skippedCount := 0
	var resMu sync.Mutex

	sem := make(chan struct{}, e.maxWorkers)

	for _, level := range levels {
		var wg sync.WaitGroup

		for _, nodeID := range level {
			n := nodes[nodeID]

			wg.Add(1)
			go func() {
				defer wg.Done()

				sem <- struct{}{}
				defer func() { <-sem }()

				nodeStart := time.Now()
				outputs, errMsg := e.executeNode(ctx, n, nodes, dm, dependencies, logger)
				state := n.State()

				resMu.Lock()
				if errMsg != "" {
					errs[n.ID()] = errMsg
					if state == node.StateSkipped {
						skippedCount++
					}
				} else {
					results[n.ID()] = outputs
				}
				resMu.Unlock()

				e.appendLog(LogEntry{
					NodeID:    n.ID(),
					Success:   errMsg == "",
					Error:     errMsg,
					Timestamp: time.Now(),
				})

				telemetry.NodesTotal.WithLabelValues(n.Type(), string(state)).Inc()
				e.events.NodeFinished(runID, n.ID(), string(state), errMsg, time.Since(nodeStart))
			}()
		}

		// Барьер: следующий уровень стартует только после того, как
		// каждый узел текущего достиг терминального состояния.
		wg.Wait()
	}

	result := &Result{
		RunID:          runID,
		Success:        len(errs) == 0,
		NodeResults:    results,
		Errors:         errs,
		Duration:       time.Since(start),
		TotalNodes:     len(nodes),
		CompletedNodes: len(results),
		FailedNodes:    len(errs) - skippedCount,
		SkippedNodes:   skippedCount,
	}

	status := "succeeded"
	if !result.Success {
		status = "failed"
	}
	telemetry.RunsTotal.WithLabelValues(status).Inc()
	telemetry.RunDuration.Observe(result.Duration.Seconds())

	logger.Info("run finished",
		"success", result.Success,
		"completed", result.CompletedNodes,
		"failed", result.FailedNodes,
		"skipped", result.SkippedNodes,
		"duration", result.Duration,
	)
	e.events.RunFinished(runID, result)

	return result, nil
}

// executeNode выполняет один узел.
//
// Возвращает выходы узла и сообщение об ошибке (""— успех). Любая
// ошибка тела операции, включая панику, конвертируется в failed
// состояние и не выходит за границу узла.
func (e *Executor) executeNode(ctx context.Context, n *node.Node, nodes map[string]*node.Node,
	dm *DataManager, dependencies map[string][]string, logger *slog.Logger) (map[string]any, string) {

	nodeID := n.ID()

	// Политика cascade-skip: зависимые узлы упавших не запускаются.
	if e.cascadeSkip {
		for _, upstream := range dependencies[nodeID] {
			state := nodes[upstream].State()
			if state == node.StateFailed || state == node.StateSkipped {
				msg := fmt.Sprintf("%v: %s", ErrUpstreamFailed, upstream)
				n.SetSkipped(msg)
				logger.Warn("node skipped", "node_id", nodeID, "upstream", upstream)
				return nil, msg
			}
		}
	}

	// Кэш: попадание — немедленный переход в completed без выполнения.
	if e.useCache {
		if cached := n.CachedResult(); cached != nil {
			dm.SetNodeResult(nodeID, cached)
			telemetry.CacheHits.Inc()
			logger.Debug("node served from node cache", "node_id", nodeID)
			return cached, ""
		}

		if outputs, ok := e.cache.Get(n.InputHash()); ok {
			n.CacheResult(outputs)
			dm.SetNodeResult(nodeID, outputs)
			telemetry.CacheHits.Inc()
			logger.Debug("node served from result cache", "node_id", nodeID)
			return outputs, ""
		}
	}

	// Валидация конфигурации: отказ — failed без вызова тела операции.
	if err := n.Validate(dm.ConnectedInputs(nodeID)); err != nil {
		n.SetError(err.Error())
		logger.Warn("node validation failed", "node_id", nodeID, "error", err)
		return nil, err.Error()
	}

	inputs := dm.ResolveInputs(n)

	workDir, err := dm.TempDir(nodeID)
	if err != nil {
		msg := err.Error()
		n.SetError(msg)
		return nil, msg
	}

	n.SetState(node.StateRunning)
	n.SetProgress(0)
	logger.Debug("node started", "node_id", nodeID, "type", n.Type())

	outputs, err := e.invoke(ctx, n, inputs, workDir, logger)
	if err != nil {
		msg := fmt.Sprintf("node %s: %v", nodeID, err)
		n.SetError(msg)
		logger.Warn("node failed", "node_id", nodeID, "error", err)
		return nil, msg
	}

	if e.useCache {
		n.CacheResult(outputs)
		e.cache.Put(n.InputHash(), outputs)
	} else {
		n.SetState(node.StateCompleted)
		n.SetProgress(1.0)
	}

	dm.SetNodeResult(nodeID, outputs)
	logger.Debug("node completed", "node_id", nodeID)

	return outputs, ""
}

// invoke вызывает тело операции, перехватывая паники.
func (e *Executor) invoke(ctx context.Context, n *node.Node, inputs map[string]any,
	workDir string, logger *slog.Logger) (outputs map[string]any, err error) {

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	resp, err := n.Execute(ctx, &node.Request{
		NodeID:   n.ID(),
		Inputs:   inputs,
		WorkDir:  workDir,
		Logger:   telemetry.WithNodeID(logger, n.ID()),
		Progress: n.SetProgress,
	})
	if err != nil {
		return nil, err
	}

	if resp == nil || resp.Outputs == nil {
		return map[string]any{}, nil
	}
	return resp.Outputs, nil
}

// appendLog добавляет запись в журнал выполнения.
func (e *Executor) appendLog(entry LogEntry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log = append(e.log, entry)
}

// ExecutionLog возвращает копию журнала выполнения.
// Журнал накапливается между запусками одного Executor.
func (e *Executor) ExecutionLog() []LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	log := make([]LogEntry, len(e.log))
	copy(log, e.log)
	return log
}
