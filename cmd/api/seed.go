package main

import (
	"errors"
	"fmt"
	"time"

	"task-buddy/internal/adapters/auth/jwtauth"
	"task-buddy/internal/config"
	"task-buddy/internal/domain/pets"
	"task-buddy/internal/domain/tasks"
	"task-buddy/internal/router"

	"github.com/spf13/cobra"
)

const seedCoins = 200

var seedUser string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "carga un usuario demo con monedas, tareas y una mascota",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := loadApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		svcs, err := router.NewServices(a.opts)
		if err != nil {
			return err
		}

		inv, err := svcs.Inventory.Get(ctx, seedUser)
		if err != nil {
			return err
		}
		if inv.Coins < seedCoins {
			if _, err := svcs.Inventory.AdjustCoins(ctx, seedUser, seedCoins-inv.Coins); err != nil {
				return err
			}
		}

		existing, err := svcs.Tasks.List(ctx, seedUser, tasks.ListFilter{})
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			now := time.Now()
			for i, title := range []string{"Make the bed", "Read 20 pages"} {
				due := now.AddDate(0, 0, 1+2*i)
				if _, err := svcs.Tasks.Create(ctx, seedUser, tasks.CreateInput{Title: title, Deadline: &due}); err != nil {
					return err
				}
			}
		}

		if _, err := svcs.Pets.Current(ctx, seedUser); errors.Is(err, pets.ErrNotFound) {
			if _, err := svcs.Pets.Create(ctx, seedUser, pets.CreateInput{Name: "Mochi", Type: string(pets.TypeCat)}); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		a.log.Info("seed completed", map[string]any{"user_id": seedUser})

		if a.cfg.Auth.Mode == config.AuthModeJWT {
			tok, err := jwtauth.Sign(a.cfg.Auth.JWTSecret, a.cfg.Auth.JWTIssuer, seedUser, 24*time.Hour, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedUser, "user", "demo", "user id del usuario demo")
	rootCmd.AddCommand(seedCmd)
}
