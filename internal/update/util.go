package update

import (
	"strings"

	"github.com/sandeepkv93/calldesk/internal/workspace"
)

// statusKind maps a status bar message onto the notice kinds used for
// history and desktop notifications.
func statusKind(isErr bool) workspace.Kind {
	if isErr {
		return workspace.KindError
	}
	return workspace.KindInfo
}

var appleScriptEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeAppleScript(s string) string {
	return appleScriptEscaper.Replace(s)
}
