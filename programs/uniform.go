package programs

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrUnsupportedUniform = errors.New("programs: unsupported uniform type")

// Block is the set of uniforms one frame of a program needs. Fields tagged
// `uniform:"name"` are loaded into the shader uniform of that name.
type Block interface {
	Kind() Kind
}

// MandelbrotUniforms feed shaders/mandelbrot.frag, used by both the
// Mandelbrot and Julia programs.
type MandelbrotUniforms struct {
	Center        mgl32.Vec2 `uniform:"center"`
	Size          mgl32.Vec2 `uniform:"size"`
	MaxIterations int32      `uniform:"max_iterations"`
	Cutoff        float32    `uniform:"cutoff"`
	IsMandelbrot  int32      `uniform:"is_mandelbrot"`
	JuliaCoeff    mgl32.Vec2 `uniform:"julia_coeff"`
}

func (u MandelbrotUniforms) Kind() Kind {
	if u.IsMandelbrot != 0 {
		return KindMandelbrot
	}
	return KindJulia
}

// NewtonUniforms feed shaders/newton.frag. Unused array elements are zero.
type NewtonUniforms struct {
	Center              mgl32.Vec2               `uniform:"center"`
	Size                mgl32.Vec2               `uniform:"size"`
	PolyCoeffs          [MaxTerms]mgl32.Vec2     `uniform:"poly_coeffs"`
	PolyDxCoeffs        [MaxTerms - 1]mgl32.Vec2 `uniform:"poly_dx_coeffs"`
	Solutions           [MaxTerms]mgl32.Vec2     `uniform:"solutions"`
	PolyDegree          int32                    `uniform:"poly_degree"`
	SolutionCount       int32                    `uniform:"solution_count"`
	MaxIterations       int32                    `uniform:"max_iterations"`
	Cutoff              float32                  `uniform:"cutoff"`
	DarkenBrightenShift float32                  `uniform:"darken_brighten_shift"`
	DarkenBrightenClamp float32                  `uniform:"darken_brighten_clamp"`
	DarkenBrightenExp   float32                  `uniform:"darken_brighten_exp"`
}

func (NewtonUniforms) Kind() Kind { return KindNewton }

// UniformSink receives uniform values by name, typically forwarding them to
// glUniform*v on the linked program.
type UniformSink interface {
	Uniform1iv(name string, values []int32)
	Uniform1fv(name string, values []float32)
	Uniform2fv(name string, values []mgl32.Vec2)
}

var vec2Type = reflect.TypeOf(mgl32.Vec2{})

// LoadUniforms sends every tagged field of block to sink. Arrays are sent
// whole.
func LoadUniforms(block any, sink UniformSink) error {
	return walkUniforms(block, func(name string, field reflect.Value) error {
		switch {
		case field.Type() == vec2Type:
			sink.Uniform2fv(name, []mgl32.Vec2{field.Interface().(mgl32.Vec2)})
		case field.Kind() == reflect.Array && field.Type().Elem() == vec2Type:
			values := make([]mgl32.Vec2, field.Len())
			for j := range values {
				values[j] = field.Index(j).Interface().(mgl32.Vec2)
			}
			sink.Uniform2fv(name, values)
		case field.Kind() == reflect.Int32:
			sink.Uniform1iv(name, []int32{int32(field.Int())})
		case field.Kind() == reflect.Float32:
			sink.Uniform1fv(name, []float32{float32(field.Float())})
		default:
			return fmt.Errorf("%w: field %q has type %v", ErrUnsupportedUniform, name, field.Type())
		}
		return nil
	})
}

// UniformNames returns the uniform names of block in field order.
func UniformNames(block any) ([]string, error) {
	var names []string
	err := walkUniforms(block, func(name string, _ reflect.Value) error {
		names = append(names, name)
		return nil
	})
	return names, err
}

func walkUniforms(block any, fn func(name string, field reflect.Value) error) error {
	v := reflect.ValueOf(block)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return fmt.Errorf("%w: nil block", ErrUnsupportedUniform)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("%w: block of type %T", ErrUnsupportedUniform, block)
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name, ok := t.Field(i).Tag.Lookup("uniform")
		if !ok {
			continue
		}
		if err := fn(name, v.Field(i)); err != nil {
			return err
		}
	}
	return nil
}
