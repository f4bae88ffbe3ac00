// xmlgrove CLI
// Builds the compact document index from an XML file and runs queries
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nainya/xmlgrove/internal/logger"
	"github.com/nainya/xmlgrove/pkg/document"
	"github.com/nainya/xmlgrove/pkg/xmlstream"
)

var (
	inPath          = flag.String("in", "-", "Input XML file, - for stdin")
	tag             = flag.String("tag", "", "List nodes carrying this tag")
	pattern         = flag.String("pattern", "", "Count and locate this substring in the character data")
	stats           = flag.Bool("stats", false, "Print document statistics")
	compress        = flag.Bool("compress", false, "Store text compressed")
	discardComments = flag.Bool("discard-comments", false, "Drop comments during the build")
	logLevel        = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	pretty          = flag.Bool("pretty", false, "Human-readable log output")
	metricsAddr     = flag.String("metrics", "", "Serve Prometheus metrics on this address, e.g. :9090")
)

// tagHit is one -tag result row.
type tagHit struct {
	Rank  int    `json:"preorder_rank"`
	Depth int    `json:"depth"`
	Text  string `json:"text"`
}

// patternHit is one -pattern result row.
type patternHit struct {
	Offset      int    `json:"offset"`
	NodeRank    int    `json:"node_rank"`
	LocalOffset int    `json:"local_offset"`
	Run         string `json:"run"`
}

func main() {
	flag.Parse()

	logger.InitGlobalLogger(logger.Config{Level: *logLevel, Pretty: *pretty, Output: os.Stderr})
	log := logger.GetGlobalLogger()

	if *metricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				log.Error("metrics endpoint failed").Err(err).Send()
			}
		}()
		log.Info("serving metrics").Str("addr", *metricsAddr).Send()
	}

	in := os.Stdin
	if *inPath != "-" {
		f, err := os.Open(*inPath)
		if err != nil {
			log.Fatal("cannot open input").Err(err).Send()
		}
		defer f.Close()
		in = f
	}

	started := time.Now()
	doc, err := xmlstream.Load(in, document.Options{
		DiscardComments: *discardComments,
		CompressText:    *compress,
	})
	if err != nil {
		log.Fatal("build failed").Err(err).Send()
	}
	log.Info("document built").
		Int("nodes", doc.NumNodes()).
		Dur("elapsed", time.Since(started)).
		Send()

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")

	if *stats {
		if err := out.Encode(doc.Stats()); err != nil {
			log.Fatal("encoding stats").Err(err).Send()
		}
	}

	if *tag != "" {
		var hits []tagHit
		it := doc.NodesWithTag(*tag)
		for {
			n, ok := it.Next()
			if !ok {
				break
			}
			hits = append(hits, tagHit{
				Rank:  n.PreorderRank(),
				Depth: n.Depth(),
				Text:  n.Text(),
			})
		}
		if err := out.Encode(hits); err != nil {
			log.Fatal("encoding tag results").Err(err).Send()
		}
	}

	if *pattern != "" {
		fmt.Fprintf(os.Stderr, "%d occurrence(s)\n", doc.Count(*pattern))
		var hits []patternHit
		it := doc.Locate(*pattern)
		for {
			off, ok := it.Next()
			if !ok {
				break
			}
			node, local, ok := doc.Resolve(off)
			if !ok {
				continue
			}
			hits = append(hits, patternHit{
				Offset:      off,
				NodeRank:    node.PreorderRank(),
				LocalOffset: local,
				Run:         node.Text(),
			})
		}
		if err := out.Encode(hits); err != nil {
			log.Fatal("encoding pattern results").Err(err).Send()
		}
	}
}
