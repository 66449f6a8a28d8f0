package main

import (
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"

	"plox/internal"
)

// runPrompt reads one line at a time and runs it against interp, whose
// globals persist between lines. Errors are reported and the prompt continues.
func runPrompt(interp *internal.Interpreter, cfg config, log *logrus.Logger) int {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completeKeyword)

	historyPath := expandHome(cfg.HistoryFile)
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	for {
		input, err := line.Prompt(cfg.Prompt)
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			log.WithError(err).Error("cannot read input")
			return exitIO
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)

		// Already reported through the interpreter's reporter
		_ = interp.Run(input)
	}

	if historyPath != "" {
		f, err := os.Create(historyPath)
		if err != nil {
			log.WithError(err).Warn("cannot write history")
			return 0
		}
		defer f.Close()
		line.WriteHistory(f)
	}
	return 0
}

// completeKeyword completes the last word of the line against the reserved words
func completeKeyword(input string) []string {
	start := strings.LastIndexAny(input, " \t(){};,.") + 1
	word := input[start:]
	if word == "" {
		return nil
	}
	var out []string
	for _, kw := range internal.Keywords() {
		if strings.HasPrefix(kw, word) {
			out = append(out, input[:start]+kw)
		}
	}
	return out
}
