// Command stickerpack-check validates a sticker pack bundle on disk without
// the server, database, or bridge. Point it at a contents.json manifest and
// the asset directory and it prints one line per pack.
//
// Usage:
//
//	go run . -manifest ./bundle/contents.json -assets ./bundle/assets
//
// The asset directory is laid out as <assets>/<pack identifier>/<file name>,
// matching what the HTTP service expects.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"stickerpack-service/internal/assets"
	"stickerpack-service/internal/domain"
	"stickerpack-service/internal/validation"
)

// manifest mirrors the contents.json bundle format. Store links declared at
// the top level apply to every pack that does not set its own.
type manifest struct {
	AndroidPlayStoreLink string               `json:"android_play_store_link"`
	IOSAppStoreLink      string               `json:"ios_app_store_link"`
	StickerPacks         []domain.StickerPack `json:"sticker_packs"`
}

func main() {
	manifestPath := flag.String("manifest", "contents.json", "path to the contents.json manifest")
	assetsDir := flag.String("assets", "./assets", "root of the per-pack asset directories")
	probeImages := flag.Bool("probe", false, "decode sticker WebP headers and check dimensions")
	flag.Parse()

	data, err := os.ReadFile(*manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read manifest: %v\n", err)
		os.Exit(2)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		fmt.Fprintf(os.Stderr, "cannot parse manifest: %v\n", err)
		os.Exit(2)
	}
	if len(m.StickerPacks) == 0 {
		fmt.Fprintln(os.Stderr, "manifest contains no sticker packs")
		os.Exit(2)
	}

	var probe validation.ImageProbe = validation.NopProbe{}
	if *probeImages {
		probe = validation.WebPProbe{}
	}
	validator := validation.New(validation.DefaultLimits(), probe)
	loader := assets.NewDirLoader(*assetsDir)

	ctx := context.Background()
	failures := 0
	for i := range m.StickerPacks {
		pack := &m.StickerPacks[i]
		if pack.AndroidPlayStoreLink == "" {
			pack.AndroidPlayStoreLink = m.AndroidPlayStoreLink
		}
		if pack.IOSAppStoreLink == "" {
			pack.IOSAppStoreLink = m.IOSAppStoreLink
		}

		if err := validator.ValidatePack(ctx, pack, loader); err != nil {
			failures++
			var verr *validation.Error
			if errors.As(err, &verr) {
				fmt.Printf("FAIL  %-30s [%s] %s\n", pack.Identifier, verr.Kind.Code(), verr.Message)
			} else {
				fmt.Printf("FAIL  %-30s %v\n", pack.Identifier, err)
			}
			continue
		}
		fmt.Printf("OK    %-30s %d stickers\n", pack.Identifier, pack.StickerCount())
	}

	if failures > 0 {
		fmt.Printf("\n%d of %d packs failed validation\n", failures, len(m.StickerPacks))
		os.Exit(1)
	}
}
