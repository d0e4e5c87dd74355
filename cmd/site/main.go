// Command site serves the studio website backend.
package main

import (
	"context"
	"log"

	"github.com/lightside/site/internal/site"
)

func main() {
	cfg, err := site.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := site.Run(context.Background(), cfg); err != nil {
		log.Fatalf("site: %v", err)
	}
}
