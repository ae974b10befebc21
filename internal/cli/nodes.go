package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewNodesCmd создаёт группу команд для просмотра типов узлов.
func NewNodesCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "Inspect registered node types",
	}

	cmd.AddCommand(
		newNodesListCmd(clientFn, outputFn),
		newNodesShowCmd(clientFn, outputFn),
	)

	return cmd
}

func newNodesListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all node types",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			types, err := client.ListNodeTypes()
			if err != nil {
				return err
			}

			headers := []string{"TYPE", "CATEGORY", "INPUTS", "OUTPUTS", "DESCRIPTION"}
			rows := make([][]string, len(types))
			for i, nt := range types {
				rows[i] = []string{
					nt.Type,
					nt.Category,
					strconv.Itoa(len(nt.Inputs)),
					strconv.Itoa(len(nt.Outputs)),
					nt.Description,
				}
			}

			out.Print(headers, rows, types)
			return nil
		},
	}
}

func newNodesShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show TYPE",
		Short: "Show node type ports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			nt, err := client.GetNodeType(args[0])
			if err != nil {
				return err
			}

			headers := []string{"DIRECTION", "NAME", "TYPE", "REQUIRED", "DEFAULT"}
			rows := make([][]string, 0, len(nt.Inputs)+len(nt.Outputs))
			for _, p := range nt.Inputs {
				rows = append(rows, []string{
					"input", p.Name, p.Type,
					strconv.FormatBool(p.Required),
					formatDefault(p.Default),
				})
			}
			for _, p := range nt.Outputs {
				rows = append(rows, []string{"output", p.Name, p.Type, "", ""})
			}

			out.Print(headers, rows, nt)
			return nil
		},
	}
}

func formatDefault(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
