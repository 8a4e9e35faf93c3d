package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/kbaudit/internal/audit"
	"github.com/dbsmedya/kbaudit/internal/graph"
)

var relationsCmd = &cobra.Command{
	Use:   "relations",
	Short: "Show the cross-reference table and collection order",
	Long: `Relations prints the foreign-key relationships the cross-reference
check enforces, followed by the collections in resolution order
(referenced collections first).

Example:
  kbaudit relations`,
	RunE: runRelations,
}

func init() {
	rootCmd.AddCommand(relationsCmd)
}

func runRelations(cmd *cobra.Command, args []string) error {
	g, err := audit.RelationGraph()
	if err != nil {
		return fmt.Errorf("failed to build relation graph: %w", err)
	}

	order, err := g.ResolutionOrder()
	if err != nil {
		return err
	}

	printHeader("Cross-Reference Relations")
	fmt.Fprintln(outputWriter)

	printSection("Relationships")
	for i, rel := range audit.Relations {
		fmt.Fprintf(outputWriter, "  [%d] %s | %s.%s -> %s.id\n",
			i+1, rel.Name, rel.Source, rel.Field, rel.Target)
	}
	fmt.Fprintln(outputWriter)

	printSection("Resolution Order")
	for i, name := range order {
		printOrderItem(i+1, g, name)
	}
	fmt.Fprintln(outputWriter)
	fmt.Fprintf(outputWriter, "%d collections, %d relations\n", g.NodeCount(), len(audit.Relations))
	return nil
}

// printOrderItem prints a collection in the resolution order list
func printOrderItem(num int, g *graph.Graph, name string) {
	numStr := fmt.Sprintf("[%d]", num)

	parents := g.GetParents(name)
	if len(parents) == 0 {
		fmt.Fprintf(outputWriter, "  %s %s (root)\n", numStr, name)
		return
	}
	for _, parent := range parents {
		for _, meta := range g.GetEdgeMeta(parent, name) {
			fmt.Fprintf(outputWriter, "  %s %s | FK: %s -> %s.%s\n",
				numStr, name, meta.ForeignKey, parent, meta.ReferenceKey)
		}
	}
}
