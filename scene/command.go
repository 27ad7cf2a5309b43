package scene

import (
	"fmt"

	"github.com/gogpu/wallgen"
)

// Verb codes of encoded path commands.
const (
	VerbMove  = 0
	VerbLine  = 1
	VerbQuad  = 2
	VerbConic = 3
	VerbCubic = 4
	VerbClose = 5
)

// Command is a path command encoded as its verb followed by coordinates:
//
//	[0, x, y]                  move
//	[1, x, y]                  line
//	[2, cx, cy, x, y]          quadratic
//	[3, cx, cy, x, y, w]       conic
//	[4, c1x, c1y, c2x, c2y, x, y] cubic
//	[5]                        close
type Command []float64

var commandArity = map[int]int{
	VerbMove:  2,
	VerbLine:  2,
	VerbQuad:  4,
	VerbConic: 5,
	VerbCubic: 6,
	VerbClose: 0,
}

// Element decodes the command.
func (c Command) Element() (wallgen.PathElement, error) {
	if len(c) == 0 {
		return nil, fmt.Errorf("scene: empty command")
	}
	verb := int(c[0])
	n, ok := commandArity[verb]
	if !ok || float64(verb) != c[0] {
		return nil, fmt.Errorf("scene: unknown verb %v", c[0])
	}
	if len(c)-1 != n {
		return nil, fmt.Errorf("scene: verb %d takes %d values, got %d", verb, n, len(c)-1)
	}
	v := c[1:]
	switch verb {
	case VerbMove:
		return wallgen.MoveTo{Point: wallgen.Pt(v[0], v[1])}, nil
	case VerbLine:
		return wallgen.LineTo{Point: wallgen.Pt(v[0], v[1])}, nil
	case VerbQuad:
		return wallgen.QuadTo{Control: wallgen.Pt(v[0], v[1]), Point: wallgen.Pt(v[2], v[3])}, nil
	case VerbConic:
		return wallgen.ConicTo{Control: wallgen.Pt(v[0], v[1]), Point: wallgen.Pt(v[2], v[3]), Weight: v[4]}, nil
	case VerbCubic:
		return wallgen.CubicTo{
			Control1: wallgen.Pt(v[0], v[1]),
			Control2: wallgen.Pt(v[2], v[3]),
			Point:    wallgen.Pt(v[4], v[5]),
		}, nil
	}
	return wallgen.Close{}, nil
}

// EncodeCommand encodes a path element.
func EncodeCommand(el wallgen.PathElement) Command {
	switch e := el.(type) {
	case wallgen.MoveTo:
		return Command{VerbMove, e.Point.X, e.Point.Y}
	case wallgen.LineTo:
		return Command{VerbLine, e.Point.X, e.Point.Y}
	case wallgen.QuadTo:
		return Command{VerbQuad, e.Control.X, e.Control.Y, e.Point.X, e.Point.Y}
	case wallgen.ConicTo:
		return Command{VerbConic, e.Control.X, e.Control.Y, e.Point.X, e.Point.Y, e.Weight}
	case wallgen.CubicTo:
		return Command{VerbCubic, e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y}
	}
	return Command{VerbClose}
}

// CommandsPath decodes a command list into a path.
func CommandsPath(cmds []Command) (*wallgen.Path, error) {
	elements := make([]wallgen.PathElement, 0, len(cmds))
	for i, c := range cmds {
		el, err := c.Element()
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		elements = append(elements, el)
	}
	return wallgen.PathFromElements(elements), nil
}

// PathCommands encodes a path as a command list.
func PathCommands(p *wallgen.Path) []Command {
	if p.IsEmpty() {
		return nil
	}
	out := make([]Command, 0, p.Len())
	for _, el := range p.Elements() {
		out = append(out, EncodeCommand(el))
	}
	return out
}
