package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jguan/ollama-model-manager/pkg/download"
)

func NewModelCommand(root *RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage models in the local runtime",
	}

	cmd.AddCommand(newModelListCommand(root))
	cmd.AddCommand(newModelPullCommand(root))
	cmd.AddCommand(newModelStatusCommand(root))
	cmd.AddCommand(newModelHistoryCommand(root))

	return cmd
}

func newModelListCommand(root *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List locally available models",
		RunE: func(cmd *cobra.Command, args []string) error {
			models, err := root.Service().List(cmd.Context())
			if err != nil {
				return err
			}

			headers := []string{"NAME", "SIZE (MB)", "FORMAT", "FAMILY", "PARAMS", "QUANT"}
			rows := make([][]string, 0, len(models))
			for _, m := range models {
				rows = append(rows, []string{
					m.Name,
					fmt.Sprintf("%.2f", float64(m.Size)/1024/1024),
					m.Format,
					m.Family,
					m.ParameterSize,
					m.QuantizationLevel,
				})
			}
			return root.opts.Print(models, headers, rows)
		},
	}
}

func newModelPullCommand(root *RootCommand) *cobra.Command {
	var detach bool

	cmd := &cobra.Command{
		Use:   "pull <model>",
		Short: "Download a model",
		Long: `Download a model into the local runtime.

By default the command waits for the download to finish, printing
status changes as they happen. With --detach it only submits the
download; note that a detached download is abandoned when this
process exits, so --detach is mainly useful against a long-running
configuration where something else keeps the process alive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			svc := root.Service()

			status, err := svc.Download(cmd.Context(), name)
			if err != nil {
				return err
			}
			root.opts.Println(fmt.Sprintf("Model %s download started (%s)", name, status))

			if detach {
				return nil
			}

			last := status
			for {
				select {
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				case <-time.After(250 * time.Millisecond):
				}

				current := svc.DownloadStatus(name)
				if current != last {
					root.opts.Println(fmt.Sprintf("Model %s: %s", name, current))
					last = current
				}
				if current.Terminal() {
					if current == download.StatusFailed {
						return fmt.Errorf("download of %s failed, see logs or 'omm model history --model %s'", name, name)
					}
					return nil
				}
			}
		},
	}

	cmd.Flags().BoolVar(&detach, "detach", false, "Submit the download without waiting")

	return cmd
}

func newModelStatusCommand(root *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "status <model>",
		Short: "Show the tracked download status for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := root.Service().DownloadStatus(args[0])
			result := map[string]string{"model": args[0], "status": string(status)}
			return root.opts.Print(result,
				[]string{"MODEL", "STATUS"},
				[][]string{{args[0], string(status)}})
		},
	}
}

func newModelHistoryCommand(root *RootCommand) *cobra.Command {
	var model string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded download events, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := root.Service().History(cmd.Context(), model, limit)
			if err != nil {
				return err
			}

			headers := []string{"MODEL", "STATUS", "DETAIL", "AT"}
			rows := make([][]string, 0, len(events))
			for _, ev := range events {
				rows = append(rows, []string{
					ev.Model,
					string(ev.Status),
					ev.Detail,
					strconv.FormatInt(ev.CreatedAt, 10),
				})
			}
			return root.opts.Print(events, headers, rows)
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Filter by model name")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of events")

	return cmd
}

func NewGenerateCommand(root *RootCommand) *cobra.Command {
	var prompt string

	cmd := &cobra.Command{
		Use:     "generate <model>",
		Short:   "Generate a response from a model",
		Example: `  omm generate llama3 --prompt "Why is the sky blue?"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := root.Service().Generate(cmd.Context(), args[0], prompt)
			if err != nil {
				return err
			}

			if root.opts.Format == OutputTable {
				root.opts.Println(result.Response)
				return nil
			}
			return root.opts.Print(result, nil, nil)
		},
	}

	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Prompt text (required)")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}
