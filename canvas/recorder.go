package canvas

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gogpu/gg"
)

// CommandType identifies a recorded drawing operation.
type CommandType uint8

const (
	CmdPush CommandType = iota
	CmdPop
	CmdTranslate
	CmdRotate
	CmdSetFillColor
	CmdSetStrokeColor
	CmdSetLineWidth
	CmdSetLineJoin
	CmdSetLineCap
	CmdSetDash
	CmdSetDashOffset
	CmdSetFont
	CmdSetTextAlign
	CmdSetTextBaseline
	CmdNewPath
	CmdRect
	CmdFill
	CmdStroke
	CmdFillText
)

var commandTypeNames = [...]string{
	CmdPush:            "Push",
	CmdPop:             "Pop",
	CmdTranslate:       "Translate",
	CmdRotate:          "Rotate",
	CmdSetFillColor:    "SetFillColor",
	CmdSetStrokeColor:  "SetStrokeColor",
	CmdSetLineWidth:    "SetLineWidth",
	CmdSetLineJoin:     "SetLineJoin",
	CmdSetLineCap:      "SetLineCap",
	CmdSetDash:         "SetDash",
	CmdSetDashOffset:   "SetDashOffset",
	CmdSetFont:         "SetFont",
	CmdSetTextAlign:    "SetTextAlign",
	CmdSetTextBaseline: "SetTextBaseline",
	CmdNewPath:         "NewPath",
	CmdRect:            "Rect",
	CmdFill:            "Fill",
	CmdStroke:          "Stroke",
	CmdFillText:        "FillText",
}

// String returns the string representation of the command type.
func (t CommandType) String() string {
	if int(t) < len(commandTypeNames) {
		return commandTypeNames[t]
	}
	return fmt.Sprintf("CommandType(%d)", t)
}

// Command is one recorded call with its arguments.
type Command struct {
	Type CommandType
	Args []any
}

// String formats the command as Name(arg, arg).
func (c Command) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = fmt.Sprint(a)
	}
	return c.Type.String() + "(" + strings.Join(args, ", ") + ")"
}

// Recorder is a Context that records every call instead of drawing.
//
// Text is measured with a fixed advance of 0.6em per rune, an ascent of
// 0.8em and a descent of 0.2em, so layout is deterministic without fonts.
type Recorder struct {
	Commands []Command
	font     Font
	fonts    []Font
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{font: Font{Family: "sans-serif", Style: "normal", Size: 10}}
}

func (r *Recorder) record(t CommandType, args ...any) {
	r.Commands = append(r.Commands, Command{Type: t, Args: args})
}

// Reset discards the recorded commands.
func (r *Recorder) Reset() { r.Commands = r.Commands[:0] }

// Count returns how many commands of type t were recorded.
func (r *Recorder) Count(t CommandType) int {
	n := 0
	for _, c := range r.Commands {
		if c.Type == t {
			n++
		}
	}
	return n
}

// Filter returns the recorded commands of type t in order.
func (r *Recorder) Filter(t CommandType) []Command {
	var out []Command
	for _, c := range r.Commands {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

func (r *Recorder) Push() {
	r.fonts = append(r.fonts, r.font)
	r.record(CmdPush)
}

func (r *Recorder) Pop() {
	if n := len(r.fonts); n > 0 {
		r.font = r.fonts[n-1]
		r.fonts = r.fonts[:n-1]
	}
	r.record(CmdPop)
}

func (r *Recorder) Translate(x, y float64)       { r.record(CmdTranslate, x, y) }
func (r *Recorder) Rotate(angle float64)         { r.record(CmdRotate, angle) }
func (r *Recorder) SetFillColor(c gg.RGBA)       { r.record(CmdSetFillColor, c) }
func (r *Recorder) SetStrokeColor(c gg.RGBA)     { r.record(CmdSetStrokeColor, c) }
func (r *Recorder) SetLineWidth(w float64)       { r.record(CmdSetLineWidth, w) }
func (r *Recorder) SetLineJoin(j gg.LineJoin)    { r.record(CmdSetLineJoin, j) }
func (r *Recorder) SetLineCap(c gg.LineCap)      { r.record(CmdSetLineCap, c) }
func (r *Recorder) SetDashOffset(offset float64) { r.record(CmdSetDashOffset, offset) }
func (r *Recorder) SetTextAlign(a Align)         { r.record(CmdSetTextAlign, a) }
func (r *Recorder) SetTextBaseline(b Baseline)   { r.record(CmdSetTextBaseline, b) }
func (r *Recorder) NewPath()                     { r.record(CmdNewPath) }
func (r *Recorder) Rect(x, y, w, h float64)      { r.record(CmdRect, x, y, w, h) }

func (r *Recorder) SetDash(pattern ...float64) {
	r.record(CmdSetDash, append([]float64{}, pattern...))
}

func (r *Recorder) SetFont(f Font) {
	r.font = f
	r.record(CmdSetFont, f)
}

func (r *Recorder) MeasureText(s string) TextMetrics {
	n := float64(utf8.RuneCountInString(s))
	return TextMetrics{
		Width:   0.6 * r.font.Size * n,
		Ascent:  0.8 * r.font.Size,
		Descent: 0.2 * r.font.Size,
	}
}

func (r *Recorder) Fill() error {
	r.record(CmdFill)
	return nil
}

func (r *Recorder) Stroke() error {
	r.record(CmdStroke)
	return nil
}

func (r *Recorder) FillText(s string, x, y float64) error {
	r.record(CmdFillText, s, x, y)
	return nil
}

var _ Context = (*Recorder)(nil)
