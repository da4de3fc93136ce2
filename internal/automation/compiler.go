package automation

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/template"

	"github.com/roach88/arduhome/internal/codegen"
)

// Priorities of step machine definitions at Base-Globals. Classes precede the
// instances that use them; both follow the component globals at 1000.
const (
	ClassPriority    = 1100
	InstancePriority = 1101
)

// Names used in generated code.
const (
	classPrefix    = "Automation"
	instancePrefix = "automation"
	deadlineVar    = "delay_end"
)

var classBodyTmpl = template.Must(template.New("body").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	Parse(`  protected:
{{- range .Definitions }}
    {{ . }}
{{- end }}

    void execute()
    {
        switch (_step)
        {
        case 0:
            break;
{{- range $i, $block := .Blocks }}
        case {{ inc $i }}:
{{- range $block }}
            {{ . }}
{{- end }}
            next_step();
            break;
{{- end }}
        default:
            _step = 0;
            break;
        }
    }
`))

var classTmpl = template.Must(template.New("class").Parse(`class {{ .Name }} : public Automation_Base
{
{{ .Body }}};`))

// Compiler turns action sequences into C++ using one codegen session.
type Compiler struct {
	session   *codegen.Session
	logger    *slog.Logger
	classes   int
	instances int
}

// NewCompiler creates a compiler that emits into session.
// A nil logger discards log output.
func NewCompiler(session *codegen.Session, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Compiler{session: session, logger: logger}
}

// Classes returns the number of distinct step machine classes emitted.
func (c *Compiler) Classes() int { return c.classes }

// Instances returns the number of step machine instances emitted.
func (c *Compiler) Instances() int { return c.instances }

// block is the statements run by one step of the machine.
type block []string

// Compile returns the statement that runs seq.
//
// A sequence without delays compiles to its statements joined by newlines and
// nothing is registered in the session. Otherwise a step machine class is
// emitted (or reused when an identical body exists), a new instance is
// declared and polled from loop(), and the returned statement starts it.
func (c *Compiler) Compile(seq Sequence) (string, error) {
	blocks, defs, err := split(seq)
	if err != nil {
		return "", err
	}

	if len(blocks) == 1 {
		return strings.Join(blocks[0], "\n"), nil
	}

	body, err := renderBody(defs, blocks)
	if err != nil {
		return "", err
	}

	className, fresh := c.session.Intern(classPrefix, body)
	if fresh {
		var sb strings.Builder
		if err := classTmpl.Execute(&sb, struct{ Name, Body string }{className, body}); err != nil {
			return "", fmt.Errorf("rendering class %s: %w", className, err)
		}
		c.session.Add(codegen.PointGlobals, sb.String(), ClassPriority)
		c.classes++
		c.logger.Debug("step machine class emitted", "class", className, "steps", len(blocks))
	} else {
		c.logger.Debug("step machine class reused", "class", className)
	}

	instance := c.session.NextID(instancePrefix)
	c.session.Add(codegen.PointGlobals,
		fmt.Sprintf("%s %s = %s();", className, instance, className), InstancePriority)
	c.session.AddDefault(codegen.PointLoop, "  "+instance+".update();")
	c.instances++

	return instance + ".start();", nil
}

// split walks seq and cuts it into blocks at every delay. Definitions needed
// by the blocks are returned deduplicated, in order of first use.
func split(seq Sequence) ([]block, []string, error) {
	var (
		blocks  []block
		defs    []string
		defSeen = make(map[string]bool)
		cur     block
	)
	define := func(d string) {
		if !defSeen[d] {
			defSeen[d] = true
			defs = append(defs, d)
		}
	}

	for _, a := range seq {
		switch a := a.(type) {
		case Delay:
			define("unsigned long " + deadlineVar + ";")
			cur = append(cur, fmt.Sprintf("%s = millis() + %d;", deadlineVar, a.Milliseconds()))
			blocks = append(blocks, cur)
			cur = block{
				fmt.Sprintf("if ((long)(millis() - %s) < 0)", deadlineVar),
				"    break;",
			}
		default:
			stmt, err := statement(a)
			if err != nil {
				return nil, nil, err
			}
			cur = append(cur, stmt)
		}
	}
	blocks = append(blocks, cur)
	return blocks, defs, nil
}

func renderBody(defs []string, blocks []block) (string, error) {
	var sb strings.Builder
	if err := classBodyTmpl.Execute(&sb, struct {
		Definitions []string
		Blocks      []block
	}{defs, blocks}); err != nil {
		return "", fmt.Errorf("rendering step machine: %w", err)
	}
	return sb.String(), nil
}
