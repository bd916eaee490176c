package shell

import (
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // Available options for this command (e.g., "-flag", "-threads")
	Args    []string // Possible argument values (for non-option arguments)
}

var handOptions = []string{"-flag", "-prevalent", "-seat", "-flowers", "-forms"}

// commandMetadata maps command names to their options and arguments
var commandMetadata = map[string]CommandMetadata{
	"fan":     {Options: handOptions},
	"score":   {Options: handOptions},
	"shanten": {Options: handOptions},
	"discard": {Options: handOptions},
	"wait":    {Options: handOptions},
	"sim": {
		Options: []string{"-threads", "-stop", "-iterations", "-draws", "-forms"},
		Args:    []string{"log", "stop", "show", "continue"},
	},
	"hist":  {Options: []string{"-bins", "-width"}},
	"batch": {Options: []string{"-encoding", "-out", "-store", "-remote"}},
	"set": {
		Args: optionKeys,
	},
	"alias": {
		Args: []string{"set", "delete", "show", "list", "remove", "rm"},
	},
	"help": {
		Args: []string{"fan", "shanten", "discard", "wait", "set", "sim", "hist",
			"batch", "script", "alias"},
	},
}

// Common command names for command completion
var commandNames = []string{
	"help", "alias", "set", "fan", "score", "shanten", "sh", "discard", "d",
	"wait", "w", "batch", "sim", "hist", "script", "exit",
}

// Common values for certain option types
var boolValues = []string{"true", "false"}
var stopValues = []string{"95", "98", "99"}
var windValues = []string{"E", "S", "W", "N"}
var flagValues = []string{"discard", "self-drawn", "4th-tile", "about-kong", "wall-last", "init"}
var formValues = []string{"all", "basic", "seven-pairs", "thirteen-orphans",
	"honors-and-knitted", "knitted-straight"}
var encodingValues = []string{"utf-8", "gb18030", "gbk"}

// valuesFor lists the values an option or setting takes.
func valuesFor(name string) []string {
	switch name {
	case "stop":
		return stopValues
	case "prevalent", "seat":
		return windValues
	case "flag":
		return flagValues
	case "forms":
		return formValues
	case "encoding":
		return encodingValues
	case "chinese":
		return boolValues
	}
	return nil
}

// Do implements the readline.AutoComplete interface
// It provides context-aware autocomplete based on what's been typed
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Get the text up to the cursor position
	text := string(line[:pos])

	// Parse the line using shellquote to handle quoted strings properly
	fields, err := shellquote.Split(text)
	if err != nil {
		// If we can't parse, fall back to simple space splitting
		fields = strings.Fields(text)
	}

	// Check if we're in the middle of typing a word or just after a space
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		// Completing a command name
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = append(completions, commandNames...)
		aliases := make([]string, 0, len(c.sc.aliases))
		for aliasName := range c.sc.aliases {
			aliases = append(aliases, aliasName)
		}
		sort.Strings(aliases)
		completions = append(completions, aliases...)
	} else {
		cmdName := fields[0]

		// Check if this is an alias, and if so, expand it to get the real command
		if aliasValue, isAlias := c.sc.aliases[cmdName]; isAlias {
			aliasFields, err := shellquote.Split(aliasValue)
			if err == nil && len(aliasFields) > 0 {
				cmdName = aliasFields[0]
			}
		}

		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		// Get the last complete field to check context
		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		if strings.HasPrefix(lastCompleteField, "-") {
			completions = valuesFor(strings.TrimPrefix(lastCompleteField, "-"))
		} else if cmdName == "set" && lastCompleteField != "set" && lastCompleteField != "" {
			completions = valuesFor(lastCompleteField)
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	// Filter completions based on prefix
	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			// Return only the part that needs to be added
			suffix := completion[len(prefix):]
			matches = append(matches, []rune(suffix))
		}
	}

	return matches, len(prefix)
}
