// One-shot external catalog search from the command line. Useful for
// checking source credentials and mappings without the API server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"gameshelf/internal/importer"
	"gameshelf/internal/sources"
	"gameshelf/pkg/utils"
)

func main() {
	var (
		query  = flag.String("q", "", "search query (required)")
		source = flag.String("source", "all", "source filter: steam, igdb or all")
		asJSON = flag.Bool("json", false, "print raw JSON instead of a summary")
	)
	flag.Parse()

	_ = godotenv.Load()

	if *query == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	srcCfg := utils.LoadSourcesConfig()
	normalizer := importer.NewNormalizer(
		sources.NewSteam(),
		sources.NewIGDB(srcCfg.IGDBClientID, srcCfg.IGDBClientSecret),
	)

	result, err := normalizer.SearchAll(ctx, *query, *source)
	if err != nil {
		log.Fatalf("search failed: %v", err)
	}

	if *asJSON {
		b, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(b))
		return
	}

	for _, e := range result.Errors {
		log.Printf("[search] source %s failed: %s", e.Source, e.Message)
	}
	if !result.HasResults {
		if len(result.Errors) > 0 {
			log.Fatal("could not search any source")
		}
		fmt.Println("no matches")
		return
	}

	for _, g := range result.Results {
		fmt.Printf("%-8s %-10s %s\n", g.Source, g.ExternalID, g.Title)
		if g.ReleaseDate != "" {
			fmt.Printf("         released %s\n", g.ReleaseDate)
		}
	}
}
