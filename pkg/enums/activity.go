package enums

import "fmt"

// ActivityAction maps to the activity_action enum in Postgres.
type ActivityAction string

const (
	ActivityActionCreate       ActivityAction = "create"
	ActivityActionUpdate       ActivityAction = "update"
	ActivityActionDelete       ActivityAction = "delete"
	ActivityActionStatusChange ActivityAction = "status_change"
	ActivityActionLogin        ActivityAction = "login"
)

var validActivityActions = []ActivityAction{
	ActivityActionCreate,
	ActivityActionUpdate,
	ActivityActionDelete,
	ActivityActionStatusChange,
	ActivityActionLogin,
}

// IsValid checks whether the given action matches the canonical enum.
func (a ActivityAction) IsValid() bool {
	for _, candidate := range validActivityActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActivityAction converts raw strings into ActivityAction.
func ParseActivityAction(value string) (ActivityAction, error) {
	for _, candidate := range validActivityActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid activity action %q", value)
}

// ActivityEntity maps to the activity_entity enum in Postgres.
type ActivityEntity string

const (
	ActivityEntityProduct  ActivityEntity = "product"
	ActivityEntityCategory ActivityEntity = "category"
	ActivityEntityOrder    ActivityEntity = "order"
	ActivityEntityBanner   ActivityEntity = "banner"
	ActivityEntityTaxRate  ActivityEntity = "tax_rate"
	ActivityEntityUser     ActivityEntity = "user"
)

var validActivityEntities = []ActivityEntity{
	ActivityEntityProduct,
	ActivityEntityCategory,
	ActivityEntityOrder,
	ActivityEntityBanner,
	ActivityEntityTaxRate,
	ActivityEntityUser,
}

// IsValid checks whether the given entity matches the canonical enum.
func (e ActivityEntity) IsValid() bool {
	for _, candidate := range validActivityEntities {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseActivityEntity converts raw strings into ActivityEntity.
func ParseActivityEntity(value string) (ActivityEntity, error) {
	for _, candidate := range validActivityEntities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid activity entity %q", value)
}
