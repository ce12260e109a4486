package repositories

import "errors"

// ErrNotFound normalizes gorm.ErrRecordNotFound so services can errors.Is
// against one sentinel regardless of the repository.
var ErrNotFound = errors.New("record not found")
