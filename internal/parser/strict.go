package parser

import (
	"regexp"
	"strconv"
	"strings"

	gyaml "github.com/goccy/go-yaml"
)

// goccy/go-yaml prefixes its messages with "[line:column]".
var yamlPositionPattern = regexp.MustCompile(`^\[(\d+):(\d+)\]\s*`)

// validateYAML checks text against a full YAML parser and reports the
// first error with its line.
func validateYAML(text string) *ParseError {
	var out interface{}
	err := gyaml.Unmarshal([]byte(text), &out)
	if err == nil {
		return nil
	}

	message := strings.TrimSpace(err.Error())
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		// Drop the source excerpt that follows the first line.
		message = strings.TrimSpace(message[:i])
	}
	line := 0
	if m := yamlPositionPattern.FindStringSubmatch(message); m != nil {
		line, _ = strconv.Atoi(m[1])
		message = message[len(m[0]):]
	}
	return &ParseError{Message: message, Line: line}
}
