package tetimprove_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/tetimprove"
	"github.com/katalvlaran/tetimprove/builder"
	"github.com/katalvlaran/tetimprove/config"
)

func ExampleRun() {
	m, err := builder.BuildMesh(nil, builder.KuhnLattice(2, 2, 2))
	if err != nil {
		panic(err)
	}
	out, err := tetimprove.Run(context.Background(), m, config.Default())
	if err != nil {
		panic(err)
	}
	fmt.Println(out.Improve.Reason, out.Improve.Final.Min >= out.Improve.Initial.Min)
	// Output: goal-reached true
}
