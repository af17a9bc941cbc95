package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/types"
)

// manageAssignments adds apartments to or removes apartments from a user's
// assignment set. Admin only. Both directions are idempotent: adding an
// already-present id or removing an absent one is a per-id no-op.
func (d *Dispatcher) manageAssignments(ctx context.Context, args map[string]any) (string, error) {
	isAdmin, _ := types.ExtractBool(args["isAdmin"])
	if !isAdmin {
		return "", authorizationErr()
	}

	target := types.ExtractString(args["targetUserId"])
	action := types.ExtractString(args["action"])
	apartmentIDs := dedup(types.ExtractStringSlice(args["apartmentIds"]))

	if action != "add" && action != "remove" {
		return "", validationErr("Некоректна дія %q: очікується add або remove.", action)
	}
	if len(apartmentIDs) == 0 {
		return "", validationErr("Не вказано жодного ID квартири.")
	}

	user, err := d.store.FindUserByNameOrHandle(ctx, target)
	if err != nil {
		return "", wrapStoreErr(err, fmt.Sprintf("Користувача %q не знайдено.", target))
	}

	assignment, err := d.store.GetAssignment(ctx, user.ID)
	if err != nil {
		if !isNotFound(err) {
			return "", wrapStoreErr(err, "")
		}
		// No record yet: add seeds a new one; remove has nothing to do
		// and succeeds with an empty resulting set.
		if action == "remove" {
			return fmt.Sprintf("У користувача %s немає призначених квартир, видаляти нічого.", user.Name), nil
		}
		created, createErr := d.store.CreateAssignment(ctx, user.ID, apartmentIDs)
		if createErr != nil {
			return "", wrapStoreErr(createErr, "")
		}
		return fmt.Sprintf("Користувачу %s призначено квартири: %s.",
			user.Name, strings.Join(created.ApartmentIDs, ", ")), nil
	}

	var result []string
	if action == "add" {
		result = union(assignment.ApartmentIDs, apartmentIDs)
	} else {
		result = difference(assignment.ApartmentIDs, apartmentIDs)
	}

	now := d.now().UTC()
	patch := types.AssignmentPatch{ApartmentIDs: &result, UpdatedAt: &now}
	if err := d.store.UpdateAssignment(ctx, assignment.ID, patch); err != nil {
		return "", wrapStoreErr(err, "")
	}

	verb := "додано до"
	if action == "remove" {
		verb = "видалено зі"
	}
	if len(result) == 0 {
		return fmt.Sprintf("Квартири %s списку користувача %s. Список тепер порожній.", verb, user.Name), nil
	}
	return fmt.Sprintf("Квартири %s списку користувача %s. Поточний список: %s.",
		verb, user.Name, strings.Join(result, ", ")), nil
}

// showAssignments lists the apartments assigned to a user. Admin only.
func (d *Dispatcher) showAssignments(ctx context.Context, args map[string]any) (string, error) {
	isAdmin, _ := types.ExtractBool(args["isAdmin"])
	if !isAdmin {
		return "", authorizationErr()
	}

	target := types.ExtractString(args["targetUserId"])
	user, err := d.store.FindUserByNameOrHandle(ctx, target)
	if err != nil {
		return "", wrapStoreErr(err, fmt.Sprintf("Користувача %q не знайдено.", target))
	}

	assignment, err := d.store.GetAssignment(ctx, user.ID)
	if err != nil {
		return "", wrapStoreErr(err, fmt.Sprintf("У користувача %s немає призначених квартир.", user.Name))
	}
	if len(assignment.ApartmentIDs) == 0 {
		return "", notFoundErr("У користувача %s немає призначених квартир.", user.Name)
	}

	return fmt.Sprintf("Квартири користувача %s: %s.",
		user.Name, strings.Join(assignment.ApartmentIDs, ", ")), nil
}

// dedup removes duplicate ids while preserving first-seen order.
func dedup(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// union appends the ids of b missing from a, preserving display order.
func union(a, b []string) []string {
	out := make([]string, len(a))
	copy(out, a)
	present := make(map[string]struct{}, len(a))
	for _, id := range a {
		present[id] = struct{}{}
	}
	for _, id := range b {
		if _, dup := present[id]; dup {
			continue
		}
		present[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// difference removes the ids of b from a, preserving display order.
func difference(a, b []string) []string {
	drop := make(map[string]struct{}, len(b))
	for _, id := range b {
		drop[id] = struct{}{}
	}
	out := make([]string, 0, len(a))
	for _, id := range a {
		if _, gone := drop[id]; gone {
			continue
		}
		out = append(out, id)
	}
	return out
}
