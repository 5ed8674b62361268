package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "serve":
		err = runServe(args)
	case "feed":
		err = runFeed(args)
	case "get":
		err = runGet(args)
	case "new":
		err = runNew(args)
	case "admin":
		err = runAdmin(args)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: folio <command> [flags] [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  serve                  Serve the feed API (-watch pushes reload events)")
	fmt.Println("  feed                   Print the ranked feed as JSON")
	fmt.Println("  get <postId>           Print one post as JSON")
	fmt.Println("  new <title>            Create a new static post")
	fmt.Println("  admin <put|rm|ls>      Manage admin posts")
	fmt.Println("  help                   Show this help message")
	fmt.Println("\nShared flags:")
	fmt.Println("  -content <dir>         Static post directory (default content/blog)")
	fmt.Println("  -admin-db <path>       Admin post database (or FOLIO_ADMIN_DB)")
	fmt.Println("  -devto-url <url>       dev.to API base URL (key from DEVTO_API_KEY)")
	fmt.Println("  -host, -port           Listen address for serve")
	fmt.Println("  -json-logs             Emit JSON logs")
	fmt.Println("\nFlags for feed:")
	fmt.Println("  -bucket <id>           Only posts in this bucket (home, or a configured bucket)")
	fmt.Println("  -limit <n>             Print at most n posts")
	fmt.Println("\nFlags for new:")
	fmt.Println("  -category <c>          all, home or a configured bucket")
	fmt.Println("  -devto <id>            dev.to article this post mirrors")
	fmt.Println("  -author <name>         Post author")
}
