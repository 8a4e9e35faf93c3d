// Command kbaudit audits a knowledge base corpus before it is published.
package main

import "github.com/dbsmedya/kbaudit/cmd/kbaudit/cmd"

func main() {
	cmd.Execute()
}
