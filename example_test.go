package coilprox_test

import (
	"context"
	"fmt"

	"github.com/hupe1980/coilprox"
	"github.com/hupe1980/coilprox/geometry"
)

func ExampleCloseCandidates() {
	ctx := context.Background()

	clouds := []geometry.PointCloud{
		{{0, 0, 0}},    // base coil
		{{10, 10, 10}}, // far away
		{{0, 0, 0.1}},  // nearly touching the base coil
	}

	pairs, err := coilprox.CloseCandidates(ctx, clouds, 1.0, len(clouds))
	if err != nil {
		panic(err)
	}

	for _, p := range pairs {
		fmt.Println(p)
	}
	// Output:
	// (2,0)
}

func ExampleDetector_CloseCandidates() {
	ctx := context.Background()
	det := coilprox.NewDetector(coilprox.WithWorkers(4))

	clouds := []geometry.PointCloud{
		{{0, 0, 0}},
		{{0, 0, 0.5}},
	}

	// Only pairs touching the first numBaseCurves clouds are reported.
	pairs, err := det.CloseCandidates(ctx, clouds, 1.0, 2)
	if err != nil {
		panic(err)
	}

	fmt.Println(len(pairs), pairs[0])
	// Output:
	// 1 (1,0)
}
