package services

import "errors"

var (
	ErrIdeaNotFound      = errors.New("idea not found")
	ErrProjectNotFound   = errors.New("project not found")
	ErrMilestoneNotFound = errors.New("milestone not found")
	ErrContractNotFound  = errors.New("vendor contract not found")
	ErrDuplicateContract = errors.New("contract number already exists")
	ErrIdeaEditForbidden = errors.New("only the submitter or a reviewer may edit this idea")
)
