package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/webtrix/go-leadform/pkg/confload"
	"github.com/webtrix/go-leadform/pkg/formdef"
	"github.com/webtrix/go-leadform/pkg/importer"
	"github.com/webtrix/go-leadform/pkg/leadsource"
	"github.com/webtrix/go-leadform/pkg/render"
	"github.com/webtrix/go-leadform/pkg/renderers/html"
	"github.com/webtrix/go-leadform/pkg/renderers/tui"
	"github.com/webtrix/go-leadform/pkg/tree"
	"github.com/webtrix/go-leadform/pkg/validation"
	"github.com/webtrix/go-leadform/pkg/visibility"
)

func main() {
	form := flag.String("form", "", "form definition file (JSON or YAML)")
	rendererName := flag.String("renderer", "html", "renderer to use (html, tui)")
	output := flag.String("output", "", "output file (stdout if empty)")
	openapiDoc := flag.String("openapi", "", "draft a definition from an OpenAPI document instead of rendering")
	operation := flag.String("operation", "", "operation id to draft from the OpenAPI document")
	pageURL := flag.String("page-url", "", "host page URL recorded in the lead source fields")
	flag.Parse()

	ctx := context.Background()

	if *openapiDoc != "" {
		draftDefinition(ctx, *openapiDoc, *operation, *output)
		return
	}

	if *form == "" {
		log.Fatal("either -form or -openapi is required")
	}

	def, err := confload.New("").FromFile(ctx, *form)
	if err != nil {
		log.Fatalf("Failed to load definition: %v", err)
	}
	if err := formdef.Validate(def); err != nil {
		log.Fatalf("Invalid definition: %v", err)
	}

	built, err := tree.Build(def, tree.Options{
		Registry: validation.Default(),
		Page:     leadsource.Page{URL: *pageURL},
	})
	if err != nil {
		log.Fatalf("Failed to build form: %v", err)
	}
	visibility.Bind(built, visibility.RulesFromDefinition(def))

	registry := render.NewRegistry()

	htmlRenderer, err := html.New()
	if err != nil {
		log.Fatalf("Failed to construct html renderer: %v", err)
	}
	registry.MustRegister(htmlRenderer)

	tuiRenderer, err := tui.New()
	if err != nil {
		log.Fatalf("Failed to construct tui renderer: %v", err)
	}
	registry.MustRegister(tuiRenderer)

	renderer, err := registry.Get(*rendererName)
	if err != nil {
		log.Fatalf("Unknown renderer: %v", err)
	}

	out, err := renderer.Render(ctx, built, def, render.Options{})
	if err != nil {
		log.Fatalf("Failed to render form: %v", err)
	}
	writeOutput(out, *output)
}

func draftDefinition(ctx context.Context, docPath, operationID, output string) {
	if operationID == "" {
		log.Fatal("-operation is required with -openapi")
	}
	def, err := importer.New().FromFile(ctx, docPath, operationID)
	if err != nil {
		log.Fatalf("Failed to draft definition: %v", err)
	}
	payload, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode definition: %v", err)
	}
	writeOutput(append(payload, '\n'), output)
}

func writeOutput(payload []byte, output string) {
	if output != "" {
		if err := os.WriteFile(output, payload, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Written to %s\n", output)
		return
	}
	os.Stdout.Write(payload)
}
