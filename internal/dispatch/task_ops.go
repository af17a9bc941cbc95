package dispatch

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/types"
)

// timePattern accepts full hours only: "HH:00" with HH in 00..23.
var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):00$`)

// updateTaskTime patches the check-in or check-out time of one task.
func (d *Dispatcher) updateTaskTime(ctx context.Context, args map[string]any) (string, error) {
	taskID := types.ExtractString(args["taskId"])
	newTime := strings.TrimSpace(types.ExtractString(args["newTime"]))
	changeType := types.ExtractString(args["changeType"])
	userID := types.ExtractString(args["userId"])

	if !timePattern.MatchString(newTime) {
		return "", validationErr("Некоректний час %q: очікується формат ГГ:00 (00..23).", newTime)
	}
	if changeType != string(types.TaskCheckin) && changeType != string(types.TaskCheckout) {
		return "", validationErr("Некоректний тип зміни %q: очікується checkin або checkout.", changeType)
	}

	task, err := d.store.GetTask(ctx, taskID)
	if err != nil {
		return "", wrapStoreErr(err, fmt.Sprintf("Завдання %s не знайдено.", taskID))
	}

	now := d.now().UTC()
	patch := types.TaskPatch{UpdatedBy: &userID, UpdatedAt: &now}
	var fieldName string
	if changeType == string(types.TaskCheckin) {
		patch.CheckinTime = &newTime
		fieldName = "заїзду"
	} else {
		patch.CheckoutTime = &newTime
		fieldName = "виїзду"
	}

	if err := d.store.UpdateTask(ctx, task.ID, patch); err != nil {
		return "", wrapStoreErr(err, fmt.Sprintf("Завдання %s не знайдено.", taskID))
	}

	return fmt.Sprintf("Час %s для завдання %s змінено на %s.", fieldName, task.ID, newTime), nil
}

// updateTaskInfo patches the sum to collect and/or keys count of one task.
// At least one of the optional fields must be present.
func (d *Dispatcher) updateTaskInfo(ctx context.Context, args map[string]any) (string, error) {
	taskID := types.ExtractString(args["taskId"])
	userID := types.ExtractString(args["userId"])

	now := d.now().UTC()
	patch := types.TaskPatch{UpdatedBy: &userID, UpdatedAt: &now}

	// Changed-field messages are enumerated sum first, then keys.
	var changed []string

	if v, present := args["newSumToCollect"]; present && v != nil {
		sum, numOk := types.ExtractFloat64(v)
		if !numOk {
			return "", validationErr("Некоректна сума %q.", types.ExtractString(v))
		}
		patch.SumToCollect = &sum
		changed = append(changed, "суму до отримання: "+strconv.FormatFloat(sum, 'f', -1, 64))
	}
	if v, present := args["newKeysCount"]; present && v != nil {
		keys, numOk := types.ExtractInt(v)
		if !numOk {
			return "", validationErr("Некоректна кількість ключів %q.", types.ExtractString(v))
		}
		patch.KeysCount = &keys
		changed = append(changed, "кількість ключів: "+strconv.Itoa(keys))
	}

	if len(changed) == 0 {
		return "", validationErr("Немає полів для оновлення.")
	}

	task, err := d.store.GetTask(ctx, taskID)
	if err != nil {
		return "", wrapStoreErr(err, fmt.Sprintf("Завдання %s не знайдено.", taskID))
	}
	if err := d.store.UpdateTask(ctx, task.ID, patch); err != nil {
		return "", wrapStoreErr(err, fmt.Sprintf("Завдання %s не знайдено.", taskID))
	}

	return fmt.Sprintf("Для завдання %s оновлено %s.", task.ID, strings.Join(changed, ", ")), nil
}
