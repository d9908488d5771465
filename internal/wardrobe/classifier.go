package wardrobe

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/kozaktomas/outfit-matcher/internal/classify"
	"github.com/kozaktomas/outfit-matcher/internal/picture"
)

// ProgressFunc is called after each image is classified.
type ProgressFunc func(done, total int, path string)

// ClassifyFile classifies the garment stored at path. An unreadable image
// yields an Uncertain item rather than an error.
func ClassifyFile(path string) Item {
	img, err := picture.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("cannot decode garment image")
		return Item{Path: path, Color: classify.Uncertain}
	}

	item := Item{Path: path, Color: classify.DominantColor(img)}
	if swatches, err := classify.Swatches(img); err == nil {
		item.Swatches = swatches
	} else {
		log.Debug().Err(err).Str("path", path).Msg("no swatches extracted")
	}
	return item
}

// DetectSkinToneFile classifies the face image stored at path. An unreadable
// image yields Unknown.
func DetectSkinToneFile(path string) classify.SkinTone {
	img, err := picture.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("cannot decode face image")
		return classify.ToneUnknown
	}
	return classify.DetectSkinTone(img)
}

// ClassifyFiles classifies paths with up to workers goroutines. The result has
// one item per path, in the same order. Paths not reached before ctx is done
// are reported as Uncertain.
func ClassifyFiles(ctx context.Context, paths []string, workers int, onProgress ProgressFunc) []Item {
	if workers < 1 {
		workers = 1
	}

	items := make([]Item, len(paths))
	semaphore := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var done int
	var progressMu sync.Mutex

	reportProgress := func(path string) {
		progressMu.Lock()
		done++
		current := done
		progressMu.Unlock()
		if onProgress != nil {
			onProgress(current, len(paths), path)
		}
	}

	for i := range paths {
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			defer func() {
				if r := recover(); r != nil {
					err := errors.Errorf("panic: %v", r)
					log.Error().Stack().Err(errors.Wrap(err, "classify "+path)).Msg("garment classification failed")
					items[idx] = Item{Path: path, Color: classify.Uncertain}
				}
				reportProgress(path)
			}()

			if ctx.Err() != nil {
				items[idx] = Item{Path: path, Color: classify.Uncertain}
				return
			}
			items[idx] = ClassifyFile(path)
		}(i, paths[i])
	}

	wg.Wait()
	return items
}
