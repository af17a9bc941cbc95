package engine

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/store"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/types"
)

// GatherFacts loads the situational facts for a caller: their assignment
// set and the currently open tasks. The two reads are independent, so they
// run concurrently. A caller without an assignment record simply sees no
// apartments; that is not an error.
func GatherFacts(ctx context.Context, st store.EntityStore, caller types.User) (types.SituationalFacts, error) {
	facts := types.SituationalFacts{
		CallerID:   caller.ID,
		CallerName: caller.Name,
		IsAdmin:    caller.IsAdmin,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		assignment, err := st.GetAssignment(ctx, caller.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return err
		}
		facts.AssignedApartmentIDs = assignment.ApartmentIDs
		return nil
	})

	g.Go(func() error {
		tasks, err := st.ListOpenTasks(ctx)
		if err != nil {
			return err
		}
		facts.OpenTasks = tasks
		return nil
	})

	if err := g.Wait(); err != nil {
		return types.SituationalFacts{}, err
	}
	return facts, nil
}
