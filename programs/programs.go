// Package programs describes the fractal shader programs: the closed set of
// fractal kinds, their typed parameters and the uniform blocks handed to the
// GPU each frame.
package programs

import (
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrUnknownKind = errors.New("programs: unknown fractal kind")

//go:embed default.vert
var defaultVertexShader string

// Kind is a fractal program.
type Kind int

const (
	KindMandelbrot Kind = iota
	KindJulia
	KindNewton
)

var kindNames = [...]string{
	KindMandelbrot: "mandelbrot",
	KindJulia:      "julia",
	KindNewton:     "newton",
}

// Kinds returns every kind.
func Kinds() []Kind {
	return []Kind{KindMandelbrot, KindJulia, KindNewton}
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind returns the kind named name, as printed by String.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Program is the shader source of one kind. The vertex shader draws a
// triangle covering the viewport from the attribute "vert"; the fragment
// shader writes "outputColor".
type Program struct {
	Kind           Kind
	Name           string
	VertexShader   string
	FragmentShader string
}

// GetProgram returns the program of kind k.
func GetProgram(k Kind) (Program, error) {
	p := Program{
		Kind:         k,
		VertexShader: defaultVertexShader,
	}

	switch k {
	case KindMandelbrot:
		p.Name = "Mandelbrot"
		p.FragmentShader = mandelbrotFragment
	case KindJulia:
		p.Name = "Julia"
		p.FragmentShader = mandelbrotFragment
	case KindNewton:
		p.Name = "Newton"
		p.FragmentShader = newtonFragment
	default:
		return Program{}, fmt.Errorf("%w: %v", ErrUnknownKind, k)
	}

	return p, nil
}

// Programs returns the program of every kind.
func Programs() []Program {
	programs := make([]Program, 0, len(kindNames))
	for _, k := range Kinds() {
		p, _ := GetProgram(k)
		programs = append(programs, p)
	}
	return programs
}

var uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+\w+\s+([^;]+);`)

// Uniforms returns the names of the uniforms declared by the fragment shader.
func (p Program) Uniforms() []string {
	var names []string
	for _, m := range uniformDecl.FindAllStringSubmatch(p.FragmentShader, -1) {
		for _, decl := range strings.Split(m[1], ",") {
			name, _, _ := strings.Cut(strings.TrimSpace(decl), "[")
			names = append(names, strings.TrimSpace(name))
		}
	}
	return names
}

// MissingUniforms returns the uniforms of block that the fragment shader does
// not declare.
func (p Program) MissingUniforms(block Block) ([]string, error) {
	names, err := UniformNames(block)
	if err != nil {
		return nil, err
	}

	declared := make(map[string]bool)
	for _, n := range p.Uniforms() {
		declared[n] = true
	}

	var missing []string
	for _, n := range names {
		if !declared[n] {
			missing = append(missing, n)
		}
	}
	return missing, nil
}
