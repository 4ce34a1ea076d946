package reconcile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"seasonwatch/internal/provider"
	"seasonwatch/internal/store"
)

// ConfirmationPrompt asks the user to settle an id-source migration.
type ConfirmationPrompt interface {
	// Confirm asks whether candidate is the same show as rec.
	Confirm(ctx context.Context, rec store.Series, candidate provider.Candidate) (bool, error)
	// ManualID asks for the TMDB id of rec. ok is false when the user skips.
	ManualID(ctx context.Context, rec store.Series) (id int64, ok bool, err error)
}

// NonInteractivePrompt declines every migration; used when stdin is not a
// terminal so scheduled runs never block.
type NonInteractivePrompt struct{}

// Confirm implements ConfirmationPrompt.
func (NonInteractivePrompt) Confirm(context.Context, store.Series, provider.Candidate) (bool, error) {
	return false, nil
}

// ManualID implements ConfirmationPrompt.
func (NonInteractivePrompt) ManualID(context.Context, store.Series) (int64, bool, error) {
	return 0, false, nil
}

// maxManualAttempts bounds re-prompting for an unparseable id.
const maxManualAttempts = 3

// TerminalPrompt reads answers line by line from In and writes questions to
// Out.
type TerminalPrompt struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalPrompt wraps in and out.
func NewTerminalPrompt(in io.Reader, out io.Writer) *TerminalPrompt {
	return &TerminalPrompt{in: bufio.NewReader(in), out: out}
}

// Ask prints question and returns the trimmed answer. End of input yields an
// empty answer.
func (p *TerminalPrompt) Ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := fmt.Fprint(p.out, question); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// YesNo asks a y/N question; anything but y or yes is no.
func (p *TerminalPrompt) YesNo(ctx context.Context, question string) (bool, error) {
	answer, err := p.Ask(ctx, question+" [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Confirm implements ConfirmationPrompt.
func (p *TerminalPrompt) Confirm(ctx context.Context, rec store.Series, candidate provider.Candidate) (bool, error) {
	return p.YesNo(ctx, fmt.Sprintf("%q is now tracked through TMDB. Is it %q (TMDB id %d)?", rec.Title, candidate.Name, candidate.ID))
}

// ManualID implements ConfirmationPrompt.
func (p *TerminalPrompt) ManualID(ctx context.Context, rec store.Series) (int64, bool, error) {
	search := "https://www.themoviedb.org/search/tv?query=" + url.QueryEscape(rec.Title)
	fmt.Fprintf(p.out, "No confident TMDB match for %q. Look it up at %s\n", rec.Title, search)
	for attempt := 0; attempt < maxManualAttempts; attempt++ {
		answer, err := p.Ask(ctx, "TMDB id (empty to skip this run): ")
		if err != nil {
			return 0, false, err
		}
		if answer == "" {
			return 0, false, nil
		}
		id, err := strconv.ParseInt(answer, 10, 64)
		if err == nil && id > 0 {
			return id, true, nil
		}
		fmt.Fprintf(p.out, "%q is not a valid TMDB id.\n", answer)
	}
	return 0, false, nil
}
