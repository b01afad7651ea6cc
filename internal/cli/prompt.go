package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"

	"github.com/fpang/product-studio/internal/filehandler"
)

// ErrCanceled reports that the user dismissed the file picker.
var ErrCanceled = errors.New("selection canceled")

// PickProductImage loads the product photo at path, or opens a native
// file picker when path is empty.
func PickProductImage(path string) (*filehandler.ProductImage, error) {
	if path == "" {
		selected, err := zenity.SelectFile(
			zenity.Title("Select product photo"),
			zenity.FileFilters{
				{Name: "Images", Patterns: []string{"*.jpg", "*.jpeg", "*.png", "*.webp"}, CaseFold: true},
			},
		)
		if err != nil {
			if errors.Is(err, zenity.ErrCanceled) {
				return nil, ErrCanceled
			}
			return nil, fmt.Errorf("open file picker: %w", err)
		}
		path = selected
	}
	return filehandler.LoadProductImage(path)
}

// Confirm asks a yes/no question on stdin. Anything but y/yes is no.
func Confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read confirmation input")
		return false
	}
	input = strings.ToLower(strings.TrimSpace(input))
	return input == "y" || input == "yes"
}
