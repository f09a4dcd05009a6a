package comment

import (
	"path/filepath"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"go.uber.org/zap"
)

type ConsolePrinter struct {
	appRoot  string
	logger   *zap.Logger
	comments []string
}

// initialize this if you want to use it at the start of the program
var printer *ConsolePrinter

// EnableConsolePrinter collects messages about the application at applicationPath
// so they can be written to the logger with WriteAll.
func EnableConsolePrinter(applicationPath string, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	printer = &ConsolePrinter{
		appRoot: filepath.Base(applicationPath),
		logger:  logger,
	}
}

// DisableConsolePrinter drops the console printer and any messages it has not written.
func DisableConsolePrinter() {
	printer = nil
}

func WriteAll() {
	if printer != nil {
		printer.Flush()
	}
}

// Add appends a new comment to the console printer.
// This function is used to add comments that will be printed to console.
// The message is the main comment, and additionalInfo is a list of optional
// comments that will be printed on new lines below the main comment.
func (p *ConsolePrinter) Add(pkg *decorator.Package, node dst.Node, header, message string, additionalInfo ...string) {
	if p == nil {
		return
	}

	pos := nodePosition(pkg, node, p.appRoot)

	b := strings.Builder{}
	b.WriteString(header)
	b.WriteByte(':')
	b.WriteByte(' ')

	if pos != "" {
		b.WriteString(pos)
		b.WriteByte(' ')
	}
	b.WriteString(message)
	for _, info := range additionalInfo {
		b.WriteString("\n\t")
		b.WriteString(info)
	}

	p.comments = append(p.comments, b.String())
}

// Flush logs all the collected comments.
func (p *ConsolePrinter) Flush() {
	if p == nil {
		return
	}

	for _, c := range p.comments {
		if strings.HasPrefix(c, WarnHeader) {
			p.logger.Warn(c)
			continue
		}
		p.logger.Info(c)
	}
	p.comments = []string{}
}
