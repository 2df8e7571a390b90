package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/ru-menu/internal/logger"
	"github.com/pfrederiksen/ru-menu/internal/menu"
	"github.com/pfrederiksen/ru-menu/internal/service"
)

func newShowCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show [desjejum|almoco|jantar|hoje]",
		Short: "Print today's menu",
		Long: `Fetches the menu page and prints one meal, or all three when no meal (or
"hoje") is given. Nothing is read from or written to the data directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			of, err := ParseFormat(format)
			if err != nil {
				return err
			}

			target := "hoje"
			if len(args) == 1 {
				target = args[0]
			}

			svc, err := a.newService(false)
			if err != nil {
				return err
			}

			loc, _ := a.cfg.Location()
			result, showErr := buildResult(cmd.Context(), svc, target, time.Now().In(loc))
			if err := WriteOutput(cmd.OutOrStdout(), result, of); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			return showErr
		},
	}

	cmd.Flags().StringVar(&format, "format", string(FormatText), "Output format: text or json")

	return cmd
}

func isToday(target string) bool {
	t := strings.ToLower(strings.TrimSpace(target))
	return t == "hoje" || t == "today"
}

// buildResult renders target. The result always carries displayable text;
// the error is set for unknown meals and fetch failures.
func buildResult(ctx context.Context, svc *service.Service, target string, now time.Time) (*OutputResult, error) {
	result := &OutputResult{
		CheckedAt: now.UTC(),
		Date:      now.Format("2006-01-02"),
		Meal:      target,
	}

	meals := menu.Meals
	if !isToday(target) {
		m, ok := menu.ParseMeal(target)
		if !ok {
			result.Text = menu.NoItemsMessage(target)
			result.Error = "unknown meal"
			return result, fmt.Errorf("%w: %q", menu.ErrUnknownMeal, target)
		}
		result.Meal = m.Label()
		meals = []menu.Meal{m}
	} else {
		result.Meal = "Hoje"
	}

	pm, err := svc.Menu(ctx)
	if err != nil {
		result.Text = service.FetchErrorMessage(err)
		result.Error = err.Error()
		return result, err
	}

	for _, m := range meals {
		result.Sections = append(result.Sections, sectionResult(pm, m))
	}

	if len(meals) == 1 {
		text, err := pm.Render(meals[0])
		if err != nil {
			logger.Warn("No items found for meal", logger.Fields{"meal": meals[0].Label()})
		}
		result.Text = text
	} else {
		result.Text = menu.FormatToday(pm)
	}

	return result, nil
}
