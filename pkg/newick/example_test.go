package newick_test

import (
	"fmt"
	"os"

	"github.com/vbadelita/harvest/pkg/newick"
)

func Example_relabel() {
	root, err := newick.Parse("('KX123456|A/duck/France/1/2021|H5N1|duck':0.1,outgroup:0.2);")
	if err != nil {
		panic(err)
	}

	stats := newick.Relabel(root)
	fmt.Printf("renamed %d nodes\n", stats.Renamed)

	newick.Write(os.Stdout, root)
	// Output:
	// renamed 1 nodes
	// (KX123456[&name=A/duck/France/1/2021,subtype=H5N1,host=duck,]:0.1,outgroup:0.2);
}

func Example_plainTopology() {
	root, err := newick.Parse("(A[&host=duck]:0.1,(B:0.2,C:0.3):0.4);")
	if err != nil {
		panic(err)
	}

	newick.Write(os.Stdout, root,
		newick.WithBranchLengths(false),
		newick.WithComments(false),
	)
	// Output:
	// (A,(B,C));
}
