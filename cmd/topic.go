package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/carteira/docs"
	"github.com/google/subcommands"
)

// topicCmd prints the embedded user documentation.
type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the cart documentation" }
func (*topicCmd) Usage() string {
	return `cart topic             lists the topics
cart topic <topic>...  prints the given topics
cart topic '*'         prints every topic
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	names := f.Args()
	if f.NArg() == 0 {
		names = []string{docs.Index}
	}
	md, err := docs.Topics(names...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
