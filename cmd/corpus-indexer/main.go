// Command corpus-indexer fetches provider documentation and builds the
// local search index the design agents consult.
package main

import (
	"flag"
	"log"

	"github.com/bitfield/script"
	"github.com/google/uuid"

	"cloudy-intel/internal/rag"
)

func main() {
	indexPath := flag.String("index", "cloudy-intel.bleve", "Documentation index path")
	provider := flag.String("provider", "aws", "Cloud provider: aws or azure")
	chunkSize := flag.Int("chunk-size", rag.DefaultChunkSize, "Chunk size in characters")
	overlap := flag.Int("overlap", rag.DefaultChunkOverlap, "Chunk overlap in characters")
	flag.Parse()

	urls, err := rag.DefaultSourceURLs(*provider)
	if err != nil {
		log.Fatalln("❌", err)
	}
	// Extra positional arguments are indexed alongside the defaults.
	urls = append(urls, flag.Args()...)

	store, err := rag.Open(*indexPath)
	if err != nil {
		log.Fatalln("❌ Unable to open index:", err)
	}
	defer store.Close()

	log.Printf("🚀 Indexing %d documentation sources for %s", len(urls), *provider)

	var indexed, failed int
	for _, url := range urls {
		log.Println("🌐 Fetching", url)
		text, err := script.Get(url).String()
		if err != nil {
			log.Println("⚠️  Fetch failed, skipping:", err)
			failed++
			continue
		}

		chunks := rag.ChunkText(rag.ExtractText(text), *chunkSize, *overlap)
		for _, chunk := range chunks {
			doc := rag.Document{
				ID:      uuid.NewString(),
				Source:  url,
				Content: chunk,
			}
			if err := store.Add(doc); err != nil {
				log.Fatalln("❌ Unable to index chunk:", err)
			}
		}
		indexed += len(chunks)
	}

	if failed > 0 {
		log.Printf("⚠️  %d sources failed to fetch", failed)
	}
	log.Printf("✅ Indexed %d chunks into %s", indexed, *indexPath)
}
