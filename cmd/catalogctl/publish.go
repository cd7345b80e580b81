package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"storefront-backend/internal/domains/product/model"
	"storefront-backend/internal/domains/product/service"
	"storefront-backend/pkg/container"
)

var publishReq model.PublishRequest
var publishFile string

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a product with its image",
	Long: `Run the publish workflow: validate, upload the image, resolve its public
URL and insert the catalog entry.

Examples:
  catalogctl publish --name "Rocket" --description "Model kit" --price 49.99 --file rocket.png`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishReq.Name, "name", "", "Product name")
	publishCmd.Flags().StringVar(&publishReq.Description, "description", "", "Product description")
	publishCmd.Flags().StringVar(&publishReq.Price, "price", "", "Price, up to 2 decimal places")
	publishCmd.Flags().StringVar(&publishReq.PaymentLink, "payment-link", "", "Optional external payment link")
	publishCmd.Flags().StringVar(&publishFile, "file", "", "Path to the product image")
}

func runPublish(cmd *cobra.Command, args []string) error {
	var file *model.UploadedFile
	if publishFile != "" {
		data, err := os.ReadFile(publishFile)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		file = &model.UploadedFile{Filename: filepath.Base(publishFile), Data: data}
	}

	c, err := container.NewContainer()
	if err != nil {
		return err
	}
	defer c.Cleanup()

	sub := service.NewSubmission(publishReq, file)
	result, err := c.PublishService.Publish(cmd.Context(), sub)
	if err != nil {
		if pe, ok := model.AsPublishError(err); ok {
			return fmt.Errorf("publish failed at %s [%s]: %s", pe.Step, pe.Code, pe.Message)
		}
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
