package newick

import "strings"

// RelabelStats summarizes a Relabel pass.
type RelabelStats struct {
	Renamed int // nodes rewritten
	Skipped int // pipe-delimited names with an unexpected field count
}

// Relabel rewrites every node whose name has the form
// accession|isolate|subtype|host or accession|isolate|subtype|host|country:
// the name becomes the bare accession and the remaining fields move into an
// annotation comment, appended to any existing comment. Names without a
// pipe are left untouched; pipe-delimited names with any other field count
// are left untouched and counted as skipped.
//
// The annotation ends with a trailing comma before the closing bracket;
// the downstream tree viewer expects it.
func Relabel(root *Node) RelabelStats {
	var stats RelabelStats
	root.Walk(func(n *Node) {
		if n.Name == "" || !strings.Contains(n.Name, "|") {
			return
		}

		parts := strings.Split(strings.Trim(n.Name, "'"), "|")
		if len(parts) != 4 && len(parts) != 5 {
			stats.Skipped++
			return
		}

		label := "name=" + parts[1] + ",subtype=" + parts[2] + ",host=" + parts[3]
		if len(parts) == 5 {
			label += ",country=" + parts[4]
		}

		n.Name = parts[0]
		if n.Comment != "" {
			n.Comment += "," + label + ","
		} else {
			n.Comment = "&" + label + ","
		}
		stats.Renamed++
	})
	return stats
}
