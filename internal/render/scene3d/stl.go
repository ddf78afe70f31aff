package scene3d

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteSTL writes tris as an ASCII STL solid.
func WriteSTL(w io.Writer, name string, tris []Triangle) error {
	if name == "" {
		name = "plan"
	}
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "solid %s\n", name)
	for _, t := range tris {
		fmt.Fprintf(bw, "  facet normal %s\n", vec(t.Normal))
		bw.WriteString("    outer loop\n")
		for _, v := range t.Vertices {
			fmt.Fprintf(bw, "      vertex %s\n", vec(v))
		}
		bw.WriteString("    endloop\n")
		bw.WriteString("  endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write stl: %w", err)
	}
	return nil
}

func vec(v Vec3) string {
	return num(v.X) + " " + num(v.Y) + " " + num(v.Z)
}

func num(f float64) string {
	if f == 0 {
		f = 0 // no "-0"
	}
	return strconv.FormatFloat(f, 'e', 6, 64)
}
