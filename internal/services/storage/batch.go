package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/phambaophuc/image-watermark/internal/models"
)

// UploadMultiple uploads files with a small worker pool. On partial failure
// it returns the URLs that did upload along with an error naming the rest.
func (s *StorageService) UploadMultiple(ctx context.Context, files []models.UploadFile) ([]string, error) {
	if len(files) == 0 {
		return []string{}, nil
	}

	urls := make([]string, len(files))
	errs := make([]error, len(files))

	numWorkers := min(5, len(files))

	jobs := make(chan int, len(files))
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				urls[i], _, errs[i] = s.Upload(ctx, files[i].Data, files[i].Filename, files[i].ContentType)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()

	var failedUploads []string
	successUrls := make([]string, 0, len(files))

	for i, err := range errs {
		if err != nil {
			failedUploads = append(failedUploads, fmt.Sprintf("%s: %v", files[i].Filename, err))
		} else {
			successUrls = append(successUrls, urls[i])
		}
	}

	if len(failedUploads) > 0 {
		return successUrls, fmt.Errorf("failed to upload %d files: %s",
			len(failedUploads), strings.Join(failedUploads, "; "))
	}

	return urls, nil
}
