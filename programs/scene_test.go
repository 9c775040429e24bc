package programs

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

func TestSceneCodec(t *testing.T) {
	newton := DefaultNewton()
	newton.Poly = []complex128{complex(0, -3), 0, 1, complex(2, 1)}

	scenes := []Scene{
		{Params: DefaultMandelbrot()},
		{Params: DefaultJulia()},
		{Params: newton},
	}

	for _, s := range scenes {
		t.Run(s.Params.Kind().String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := EncodeScene(&buf, s); err != nil {
				t.Fatal(err)
			}

			got, err := DecodeScene(&buf)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, s) {
				t.Errorf("decoded %+v, want %+v", got, s)
			}
		})
	}
}

func TestSceneCodecErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeScene(&buf, Scene{}); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("EncodeScene(empty) = %v, want ErrInvalidParams", err)
	}
	if err := EncodeScene(&buf, Scene{Params: JuliaParams{}}); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("EncodeScene(zero julia) = %v, want ErrInvalidParams", err)
	}
	if buf.Len() != 0 {
		t.Errorf("invalid scenes wrote %d bytes", buf.Len())
	}

	if _, err := DecodeScene(bytes.NewReader([]byte("not a scene"))); err == nil {
		t.Error("DecodeScene(garbage) succeeded")
	}
}
