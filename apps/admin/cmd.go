package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/ntic/scicon/apps/shared"
	"github.com/ntic/scicon/core"
	"github.com/ntic/scicon/core/submission"
)

var (
	isTerminalFunc = term.IsTerminal                          // mockable
	stdinFdFunc    = func() int { return int(os.Stdin.Fd()) } // mockable

	errHelp           = errors.New("help provided")
	errNotInteractive = errors.New("confirmation needed: pass -yes or run from a terminal")
	errAborted        = errors.New("aborted")
)

type commandLine struct {
	db         *sql.DB
	engine     string
	svc        submission.Service
	validate   *validator.Validate
	translator ut.Translator
	in         io.Reader
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                          - run a goose migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  list [-search Q] [-status S] [-event E] [-type T] - list submissions, newest first")
	fmt.Fprintln(cli.out, "  stats                                           - print the workspace counters and events")
	fmt.Fprintln(cli.out, "  withdraw -id ID [-yes]                          - withdraw a submission")
	fmt.Fprintln(cli.out, "  reset [-yes]                                    - restore the sample submissions")
	fmt.Fprintln(cli.out, "Pending migrations are applied before list, stats, withdraw and reset.")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	defer cli.svc.Wait()

	switch args[1] {
	case "list", "stats", "withdraw", "reset":
		if err := cli.ensureSchema(); err != nil {
			return err
		}
	}

	listCmd := flag.NewFlagSet("list", flag.ContinueOnError)
	listCmd.SetOutput(cli.out)
	listSearch := listCmd.String("search", "", "Free text matched against title, event, track and keywords.")
	listStatus := listCmd.String("status", submission.AllValue, "Submission status, or ALL.")
	listEvent := listCmd.String("event", submission.AllValue, "Event id, or ALL.")
	listType := listCmd.String("type", submission.AllValue, "Presentation type, or ALL.")

	withdrawCmd := flag.NewFlagSet("withdraw", flag.ContinueOnError)
	withdrawCmd.SetOutput(cli.out)
	withdrawID := withdrawCmd.String("id", "", "The submission id.")
	withdrawYes := withdrawCmd.Bool("yes", false, "Do not ask for confirmation.")

	resetCmd := flag.NewFlagSet("reset", flag.ContinueOnError)
	resetCmd.SetOutput(cli.out)
	resetYes := resetCmd.Bool("yes", false, "Do not ask for confirmation.")

	ctx := context.Background()

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "list":
		if err := listCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		qf := submission.QueryFilter{Search: *listSearch, Status: *listStatus, Event: *listEvent, Type: *listType}
		return cli.list(ctx, qf)
	case "stats":
		return cli.stats(ctx)
	case "withdraw":
		if err := withdrawCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if strings.TrimSpace(*withdrawID) == "" {
			withdrawCmd.Usage()
			return errHelp
		}
		return cli.withdraw(ctx, *withdrawID, *withdrawYes)
	case "reset":
		if err := resetCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.reset(ctx, *resetYes)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) list(ctx context.Context, qf submission.QueryFilter) error {
	if err := qf.Validate(cli.validate); err != nil {
		return cli.translate(err)
	}
	subs, err := cli.svc.Query(ctx, qf.Filter())
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, renderSubmissions(subs))
	return nil
}

func (cli *commandLine) stats(ctx context.Context) error {
	counters, err := cli.svc.Counters(ctx)
	if err != nil {
		return err
	}
	events, err := cli.svc.Events(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, shared.TitleStyle.Render("My Submissions"))
	fmt.Fprintln(cli.out, shared.CountersLine(counters))
	fmt.Fprintln(cli.out, renderEvents(events))
	return nil
}

func (cli *commandLine) withdraw(ctx context.Context, id string, yes bool) error {
	if !yes && !isTerminalFunc(stdinFdFunc()) {
		return errNotInteractive
	}

	confirm := submission.Confirmed
	if !yes {
		confirm = func(sub submission.Submission) bool {
			return cli.ask(fmt.Sprintf("Withdraw %q? [y/N] ", sub.Title))
		}
	}

	sub, err := cli.svc.Withdraw(ctx, id, confirm)
	if err != nil {
		if err == submission.ErrNotConfirmed {
			return errAborted
		}
		return err
	}
	fmt.Fprintf(cli.out, "%s %s\n", shared.StatusBadge(sub.Status), sub.Title)
	return nil
}

func (cli *commandLine) reset(ctx context.Context, yes bool) error {
	if !yes {
		if !isTerminalFunc(stdinFdFunc()) {
			return errNotInteractive
		}
		if !cli.ask("Replace every submission with the sample data? [y/N] ") {
			return errAborted
		}
	}

	subs, err := cli.svc.Reset(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, shared.SuccessStyle.Render(fmt.Sprintf("%d submissions restored", len(subs))))
	return nil
}

// ask prints prompt and reports whether the answer is yes.
func (cli *commandLine) ask(prompt string) bool {
	fmt.Fprint(cli.out, prompt)
	line, err := bufio.NewReader(cli.in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// translate turns validation errors into a single readable error.
func (cli *commandLine) translate(err error) error {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}
	fldErrs := core.TranslateErrors(vErrs, cli.translator)
	msgs := make([]string, 0, len(fldErrs))
	for fld, msg := range fldErrs {
		msgs = append(msgs, fld+": "+msg)
	}
	sort.Strings(msgs)
	return errors.New(strings.Join(msgs, "; "))
}
