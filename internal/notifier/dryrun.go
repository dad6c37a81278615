package notifier

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// DryRunNotifier prints what would be posted without actually posting
type DryRunNotifier struct {
	out io.Writer
}

// NewDryRunNotifier creates a new dry-run notifier writing to stdout
func NewDryRunNotifier() *DryRunNotifier {
	return &DryRunNotifier{out: os.Stdout}
}

// NewDryRunNotifierTo creates a dry-run notifier writing to w
func NewDryRunNotifierTo(w io.Writer) *DryRunNotifier {
	return &DryRunNotifier{out: w}
}

// Notify prints the posts that would be made
func (n *DryRunNotifier) Notify(announcements []Announcement) error {
	for i, a := range announcements {
		text := a.Text()
		fmt.Fprintf(n.out, "--- Post %d/%d ---\n", i+1, len(announcements))
		fmt.Fprintln(n.out, text)
		fmt.Fprintf(n.out, "\n(Length: %d characters)\n\n", utf8.RuneCountInString(text))
	}
	return nil
}
