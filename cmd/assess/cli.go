package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/godilite/assessment-server/internal/assessment"
)

// cli drives one engine from line-oriented input.
type cli struct {
	engine *assessment.Engine
	in     *bufio.Scanner
	out    io.Writer
}

func newCLI(engine *assessment.Engine, in io.Reader, out io.Writer) *cli {
	return &cli{engine: engine, in: bufio.NewScanner(in), out: out}
}

func (c *cli) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// prompt returns the next trimmed line, or false on end of input.
func (c *cli) prompt(label string) (string, bool) {
	c.printf("%s", label)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *cli) run(ctx context.Context) error {
	for {
		line, ok := c.prompt("\n[n]ew  [h]istory  [r]esume <id>  [v]iew <id>  [q]uit > ")
		if !ok {
			return c.in.Err()
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		var err error
		switch strings.ToLower(cmd) {
		case "n", "new":
			err = c.newAssessment(ctx)
		case "h", "history":
			err = c.history(ctx)
		case "r", "resume":
			err = c.resume(ctx, arg)
		case "v", "view":
			err = c.view(ctx, arg)
		case "q", "quit":
			return nil
		case "":
			continue
		default:
			c.printf("unknown command %q\n", cmd)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			c.printf("error: %v\n", err)
		}
	}
}

func (c *cli) newAssessment(ctx context.Context) error {
	if err := c.engine.Reset(); err != nil {
		return err
	}
	competencies, err := c.engine.Competencies(ctx)
	if err != nil {
		return err
	}
	if len(competencies) == 0 {
		c.printf("no competencies are available\n")
		return nil
	}
	for i, comp := range competencies {
		c.printf("  %d) %s", i+1, comp.Name)
		if comp.Description != "" {
			c.printf(" - %s", comp.Description)
		}
		c.printf("\n")
	}

	for {
		line, ok := c.prompt("Select competencies (e.g. 1,3): ")
		if !ok {
			return io.EOF
		}
		ids, err := parseSelection(line, competencies)
		if err != nil {
			c.printf("%v\n", err)
			continue
		}
		if err := c.engine.SelectCompetencies(ids); err != nil {
			return err
		}
		if err := c.engine.Start(ctx); err != nil {
			if assessment.IsValidation(err) {
				c.printf("%v\n", err)
				continue
			}
			return err
		}
		break
	}

	c.printf("Started assessment %s\n", c.engine.Snapshot().AssessmentID)
	return c.answer(ctx)
}

func parseSelection(line string, competencies []assessment.Competency) ([]string, error) {
	var ids []string
	for _, field := range strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' }) {
		n, err := strconv.Atoi(field)
		if err != nil || n < 1 || n > len(competencies) {
			return nil, fmt.Errorf("%q is not a competency number", field)
		}
		ids = append(ids, competencies[n-1].ID)
	}
	return ids, nil
}

// answer asks questions until the assessment completes or the user leaves.
func (c *cli) answer(ctx context.Context) error {
	for {
		view := c.engine.Snapshot()
		if view.Status == assessment.StatusCompleted && view.Result != nil {
			c.printResult(*view.Result)
			return nil
		}
		if view.Question == nil {
			// Every question is answered but completion failed earlier.
			if _, err := c.engine.Complete(ctx); err != nil {
				return err
			}
			continue
		}

		q := view.Question
		c.printf("\nQuestion %d/%d [%s] (%.0f%% done)\n%s\n", view.CurrentIndex+1, view.TotalQuestions,
			q.CompetencyName, view.Progress, q.Statement)
		for _, ex := range q.Examples {
			c.printf("  e.g. %s\n", ex)
		}
		for _, o := range view.Options {
			c.printf("  %d) %s\n", o.Value, o.Label)
		}

		hint := "q=menu"
		if view.CanGoBack {
			hint = "b=back, " + hint
		}
		line, ok := c.prompt(fmt.Sprintf("Rating (%s): ", hint))
		if !ok {
			return io.EOF
		}

		switch strings.ToLower(line) {
		case "q":
			c.printf("Progress saved. Resume with: r %s\n", view.AssessmentID)
			return nil
		case "b":
			if err := c.engine.GoToPrevious(); err != nil {
				c.printf("%v\n", err)
			}
			continue
		}

		rating, err := strconv.Atoi(line)
		if err != nil {
			c.printf("enter one of the listed numbers\n")
			continue
		}
		if err := c.engine.SetRating(rating); err != nil {
			c.printf("%v\n", err)
			continue
		}
		comment, ok := c.prompt("Comment (optional): ")
		if !ok {
			return io.EOF
		}
		if err := c.engine.SetComment(comment); err != nil {
			return err
		}
		if err := c.engine.Submit(ctx); err != nil {
			if assessment.IsValidation(err) {
				c.printf("%v\n", err)
				continue
			}
			return err
		}
	}
}

func (c *cli) resume(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("usage: r <assessment id>")
	}
	if err := c.engine.Reset(); err != nil {
		return err
	}
	if err := c.engine.Resume(ctx, id); err != nil {
		return err
	}
	return c.answer(ctx)
}

func (c *cli) view(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("usage: v <assessment id>")
	}
	result, err := c.engine.ViewResult(ctx, id)
	if err != nil {
		return err
	}
	c.printResult(result)
	return nil
}

func (c *cli) history(ctx context.Context) error {
	summaries, err := c.engine.LoadHistory(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		c.printf("no assessments yet\n")
		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tANSWERED\tAVERAGE\tSTARTED")
	for _, s := range summaries {
		avg := "-"
		if s.AverageScore != nil {
			avg = fmt.Sprintf("%.2f", *s.AverageScore)
		}
		fmt.Fprintf(w, "%s\t%s\t%d/%d\t%s\t%s\n", s.ID, s.Status, s.AnsweredCount, s.TotalQuestions,
			avg, s.StartedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func (c *cli) printResult(r assessment.Result) {
	c.printf("\nAverage score: %.2f (%d/%d answered)\n", r.AverageScore, r.AnsweredCount, r.TotalQuestions)
	for _, b := range r.CompetencyBreakdown {
		c.printf("  %-30s %.2f (%d questions)\n", b.CompetencyName, b.AverageScore, b.TotalQuestions)
	}
}
