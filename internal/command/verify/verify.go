package verify

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/keshon/snapvcs/internal/command"
	"github.com/keshon/snapvcs/internal/middleware"
	"github.com/keshon/snapvcs/internal/progress"
	"github.com/keshon/snapvcs/internal/repo"
	"github.com/keshon/snapvcs/internal/repo/meta"
)

type Command struct {
	verbose bool
}

func (c *Command) Name() string      { return "verify" }
func (c *Command) Short() string     { return "V" }
func (c *Command) Aliases() []string { return []string{"fsck"} }
func (c *Command) Usage() string     { return "verify [-v]" }
func (c *Command) Brief() string     { return "Check every commit record on disk" }
func (c *Command) Help() string {
	return `Re-read every commit record under the storage root and report
records that fail to parse, records unreachable because of a gap in
the ids, and a metadata counter that disagrees with the commits.

Options:
  -v    List every record with its checksum.

Usage:
  snap verify`
}

func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "v", false, "list every record")
}

func (c *Command) Run(ctx *command.Context) error {
	r, err := ctx.Repo()
	if err != nil {
		return err
	}
	out := ctx.Out()

	var rep *repo.VerifyReport
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		rep, err = c.verifyWithProgress(ctx, r)
	} else {
		rep, err = r.Verify()
	}
	if err != nil {
		return err
	}
	if !rep.MetadataFound {
		fmt.Fprintf(out, "No repository metadata at %q\n", r.Config.Root)
	}

	for _, rc := range rep.Records {
		switch {
		case rc.Status != repo.RecordOK:
			fmt.Fprintf(out, "\033[31m%-10s\033[0m #%d: %s\n", rc.Status, rc.ID, rc.Reason)
		case c.verbose:
			fmt.Fprintf(out, "%-10s #%d %d files %s\n", rc.Status, rc.ID, rc.Files, meta.ShortHash(rc.Checksum))
		}
	}
	if len(rep.Orphans) > 0 {
		fmt.Fprintf(out, "\033[33morphaned\033[0m   records after #%d are not loaded: %v\n", rep.Contiguous, rep.Orphans)
	}
	if rep.Drift() {
		fmt.Fprintf(out, "\033[33mmetadata\033[0m   next id is %d, commits say %d\n", rep.MetadataNextID, rep.DerivedNextID)
	}

	if !rep.OK() {
		return fmt.Errorf("repository verification found problems")
	}
	fmt.Fprintf(out, "All %d commit records OK\n", len(rep.Records))
	return nil
}

func (c *Command) verifyWithProgress(ctx *command.Context, r *repo.Repository) (*repo.VerifyReport, error) {
	total, err := r.CountRecords()
	if err != nil {
		return nil, err
	}
	bar := progress.NewProgress(ctx.Out(), total, "Checking records", "records")

	var records []repo.RecordCheck
	results, errCh := r.VerifyStream(0)
	for rc := range results {
		records = append(records, rc)
		bar.Increment()
	}
	bar.Finish()
	if err := <-errCh; err != nil {
		return nil, err
	}
	return r.Summarize(records)
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithDebugArgsPrint(),
		),
	)
}
