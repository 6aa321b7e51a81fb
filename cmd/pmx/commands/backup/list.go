package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/pmx/internal/agent"
	"github.com/thoreinstein/pmx/internal/backup"
	"github.com/thoreinstein/pmx/internal/errors"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list [agent]",
	Short: "List available backups",
	Long: `List the backups of one agent, or of every agent when none is given.
Backups are shown with the most recent first.`,
	Example: `  pmx backup list
  pmx backup list claude --json`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeAgents,
	RunE: func(_ *cobra.Command, args []string) error {
		agents := agent.All()
		if len(args) == 1 {
			a, err := agent.Parse(args[0])
			if err != nil {
				return err
			}
			agents = []agent.Agent{a}
		}
		return runListWithWriter(os.Stdout, newManager(), agents, listJSON)
	},
}

// listOutput represents the JSON output for backup list.
type listOutput struct {
	Agent   string       `json:"agent"`
	Backups []infoOutput `json:"backups"`
}

// infoOutput represents a single backup in JSON output.
type infoOutput struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Target     string    `json:"target"`
	PMXVersion string    `json:"pmx_version"`
}

// runListWithWriter allows injecting a writer and manager for testing.
func runListWithWriter(w io.Writer, mgr *backup.Manager, agents []agent.Agent, asJSON bool) error {
	output := make([]listOutput, 0, len(agents))
	for _, a := range agents {
		manifests, err := mgr.List(a.String())
		if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.Wrapf(err, "listing backups for %s", a)
		}

		backups := make([]infoOutput, len(manifests))
		for i, m := range manifests {
			backups[i] = infoOutput{
				ID:         m.ID,
				CreatedAt:  m.CreatedAt,
				PMXVersion: m.PMXVersion,
			}
			if len(m.Files) > 0 {
				backups[i].Target = m.Files[0].OriginalPath
			}
		}
		output = append(output, listOutput{Agent: a.String(), Backups: backups})
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(output), "encoding output")
	}
	writeListTabular(w, output)
	return nil
}

func writeListTabular(w io.Writer, output []listOutput) {
	header := color.New(color.FgCyan, color.Bold)
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	gray := color.New(color.FgHiBlack)

	hasBackups := false
	for i, entry := range output {
		if i > 0 {
			fmt.Fprintln(w)
		}

		a := agent.Agent(entry.Agent)
		fmt.Fprintln(w, header.Sprintf("Agent: %s", a.DisplayName()))

		if len(entry.Backups) == 0 {
			fmt.Fprintf(w, "  %s\n", gray.Sprint("(no backups available)"))
			continue
		}
		hasBackups = true

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", bold.Sprint("ID"), bold.Sprint("CREATED"), bold.Sprint("TARGET"))
		for _, b := range entry.Backups {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n",
				green.Sprint(b.ID),
				b.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				b.Target)
		}
		tw.Flush()
	}

	if !hasBackups {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No backups available")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Backups are created automatically before pmx modifies an instruction file.")
	}
}
