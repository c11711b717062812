package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// consentChoice is the answer to the first-run logging question.
type consentChoice int

const (
	consentDeny consentChoice = iota
	consentAllow
	consentLearnMore
)

const consentQuestion = `commitsense would like to log your coding activity to help generate
better commit messages. Your data stays local and is never shared.`

const consentDetails = `What is recorded:
  - the workspace-relative path of files you create, modify, delete or save
  - the action and a timestamp
  - for saves, the line and character count (never the file contents)

Files under node_modules and .git, files whose name starts with .env, and
anything matching logging.exclude_patterns are never recorded. The log keeps
at most logging.max_entries entries in ~/.commitsense/activity.log.

When you run "commitsense suggest", the most recent entries (file names and
actions only) are sent to the configured chat-completion endpoint.`

// askConsent asks whether activity logging may be enabled. An empty or
// unrecognized answer counts as deny.
func askConsent(r *bufio.Reader, w io.Writer) consentChoice {
	fmt.Fprintln(w, consentQuestion)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s allow logging   %s deny   %s learn more\n",
		styleCommand.Render("[a]"), styleCommand.Render("[d]"), styleCommand.Render("[l]"))
	fmt.Fprint(w, "Choice [d]: ")

	answer, _ := r.ReadString('\n')
	switch strings.TrimSpace(strings.ToLower(answer)) {
	case "a", "allow", "y", "yes":
		return consentAllow
	case "l", "learn", "learn more":
		return consentLearnMore
	default:
		return consentDeny
	}
}

// promptYesNo asks a yes/no question; an empty answer returns def.
func promptYesNo(r *bufio.Reader, w io.Writer, prompt string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(w, "%s [%s]: ", prompt, hint)

	response, _ := r.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	if response == "" {
		return def
	}
	return response == "y" || response == "yes"
}
