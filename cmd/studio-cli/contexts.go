package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fpang/product-studio/internal/prompt"
)

var contextsCmd = &cobra.Command{
	Use:   "contexts",
	Short: "List the preset visual contexts per category",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("GAME")
		for _, c := range prompt.GameContexts {
			fmt.Printf("  %-4s %-24s %s\n", c.ID, c.Label, c.Description)
		}
		fmt.Println("\nFURNITURE")
		for _, c := range prompt.FurnitureContexts {
			fmt.Printf("  %-4s %-24s %s\n", c.ID, c.Label, c.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(contextsCmd)
}
