package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/syncflow/syncflow/internal/engine"
	"github.com/syncflow/syncflow/internal/node"
	"github.com/syncflow/syncflow/internal/nodes"
	"github.com/syncflow/syncflow/internal/workflow"
)

// NewWorkflowCmd создаёт группу команд для управления workflows.
func NewWorkflowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Manage workflows",
	}

	cmd.AddCommand(
		newWorkflowListCmd(clientFn, outputFn),
		newWorkflowCreateCmd(clientFn, outputFn),
		newWorkflowShowCmd(clientFn, outputFn),
		newWorkflowUpdateCmd(clientFn, outputFn),
		newWorkflowDeleteCmd(clientFn, outputFn),
		newWorkflowValidateCmd(clientFn, outputFn),
		newWorkflowCheckCmd(outputFn),
		newWorkflowExecCmd(outputFn),
		newWorkflowNewCmd(outputFn),
	)

	return cmd
}

func newWorkflowListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all workflows",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			workflows, err := client.ListWorkflows()
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "CREATED", "UPDATED"}
			rows := make([][]string, len(workflows))
			for i, w := range workflows {
				rows[i] = []string{w.ID, w.Name, w.CreatedAt, w.UpdatedAt}
			}

			out.Print(headers, rows, workflows)
			return nil
		},
	}
}

func newWorkflowCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name string
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a workflow from a document file",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			doc, err := loadDocumentJSON(file)
			if err != nil {
				return err
			}

			w, err := client.CreateWorkflow(name, doc)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Workflow created: %s", w.ID))
			out.Print(
				[]string{"ID", "NAME", "CREATED"},
				[][]string{{w.ID, w.Name, w.CreatedAt}},
				w,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Workflow name (required)")
	cmd.Flags().StringVar(&file, "file", "", "Path to workflow document, YAML or JSON (required)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("file")

	return cmd
}

func newWorkflowShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show workflow details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			w, err := client.GetWorkflow(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "NAME", "CREATED", "UPDATED"},
				[][]string{{w.ID, w.Name, w.CreatedAt, w.UpdatedAt}},
				w,
			)
			return nil
		},
	}
}

func newWorkflowUpdateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name string
	var file string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := UpdateWorkflowRequest{}
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("file") {
				doc, err := loadDocumentJSON(file)
				if err != nil {
					return err
				}
				req.Document = doc
			}

			w, err := client.UpdateWorkflow(args[0], req)
			if err != nil {
				return err
			}

			out.Success("Workflow updated")
			out.Print(
				[]string{"ID", "NAME", "CREATED", "UPDATED"},
				[][]string{{w.ID, w.Name, w.CreatedAt, w.UpdatedAt}},
				w,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New workflow name")
	cmd.Flags().StringVar(&file, "file", "", "Path to new workflow document")

	return cmd
}

func newWorkflowDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteWorkflow(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Workflow deleted: %s", args[0]))
			return nil
		},
	}
}

func newWorkflowValidateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "validate ID",
		Short: "Validate a stored workflow on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			vr, err := client.ValidateWorkflow(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"VALID", "ERROR"},
				[][]string{{strconv.FormatBool(vr.Valid), vr.Error}},
				vr,
			)
			if !vr.Valid {
				os.Exit(1)
			}
			return nil
		},
	}
}

// newWorkflowCheckCmd валидирует документ локально, без сервера.
func newWorkflowCheckCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Validate a workflow document locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			w, err := localSerializer().Load(args[0])
			if err != nil {
				return err
			}
			if err := w.Validate(); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("OK: %d nodes, %d connections", len(w.Nodes), len(w.Connections)))
			return nil
		},
	}
}

// newWorkflowExecCmd выполняет документ локально, in-process,
// без сервера и базы данных.
func newWorkflowExecCmd(outputFn func() *Output) *cobra.Command {
	var workers int
	var noCache bool
	var cascadeSkip bool
	var workDir string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "exec FILE",
		Short: "Execute a workflow document locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			w, err := localSerializer().Load(args[0])
			if err != nil {
				return err
			}
			if err := w.Validate(); err != nil {
				return err
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelInfo
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			exec := engine.New(engine.Config{
				MaxWorkers:   workers,
				DisableCache: noCache,
				CascadeSkip:  cascadeSkip,
				WorkDir:      workDir,
				Logger:       logger,
			})

			result, err := exec.ExecuteWorkflow(cmd.Context(), w.Nodes, w.Connections)
			if err != nil {
				return err
			}

			out.Print(
				[]string{"RUN_ID", "SUCCESS", "TOTAL", "COMPLETED", "FAILED", "SKIPPED", "DURATION"},
				[][]string{{
					result.RunID.String(),
					strconv.FormatBool(result.Success),
					strconv.Itoa(result.TotalNodes),
					strconv.Itoa(result.CompletedNodes),
					strconv.Itoa(result.FailedNodes),
					strconv.Itoa(result.SkippedNodes),
					result.Duration.String(),
				}},
				result,
			)

			if !result.Success {
				ids := make([]string, 0, len(result.Errors))
				for id := range result.Errors {
					ids = append(ids, id)
				}
				sort.Strings(ids)
				for _, id := range ids {
					out.Error(fmt.Sprintf("%s: %s", id, result.Errors[id]))
				}
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size (0 = default)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable result caching")
	cmd.Flags().BoolVar(&cascadeSkip, "cascade-skip", false, "Skip dependents of failed nodes")
	cmd.Flags().StringVar(&workDir, "workdir", "", "Base directory for node working directories")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log node execution to stderr")

	return cmd
}

// newWorkflowNewCmd записывает стартовый документ, с которого удобно
// начинать собственный workflow.
func newWorkflowNewCmd(outputFn func() *Output) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "new FILE",
		Short: "Scaffold a sample workflow document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			reg := node.NewRegistry()
			nodes.RegisterBuiltins(reg)

			w := workflow.New()
			w.Metadata["name"] = name

			scan, err := reg.NewNode("LoadDirectory", "scan", map[string]any{
				"path":     ".",
				"pattern":  "*.csv",
				"position": []float64{40, 120},
			})
			if err != nil {
				return err
			}
			report, err := reg.NewNode("WriteJSON", "report", map[string]any{
				"filename": "report.json",
				"position": []float64{320, 120},
			})
			if err != nil {
				return err
			}

			if err := w.AddNode(scan); err != nil {
				return err
			}
			if err := w.AddNode(report); err != nil {
				return err
			}
			w.Connect("scan", "files", "report", "data")

			if err := workflow.NewSerializer(reg).Save(w, args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Workflow written to %s", args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "sample", "Workflow name in document metadata")

	return cmd
}

// localSerializer собирает serializer с реестром встроенных узлов.
func localSerializer() *workflow.Serializer {
	reg := node.NewRegistry()
	nodes.RegisterBuiltins(reg)
	return workflow.NewSerializer(reg)
}

// loadDocumentJSON читает документ (YAML или JSON), прогоняет его через
// реестр встроенных узлов и возвращает каноничный JSON для API.
func loadDocumentJSON(path string) (json.RawMessage, error) {
	s := localSerializer()
	w, err := s.Load(path)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(s.Serialize(w))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return json.RawMessage(data), nil
}
