package model

// PassType determines how many times a pass may be consumed.
type PassType string

const (
	PassTypeSingleUse PassType = "SINGLE_USE"
	PassTypeTemporary PassType = "TEMPORARY"
	PassTypeRecurrent PassType = "RECURRENT"
)

func (t PassType) Valid() bool {
	switch t {
	case PassTypeSingleUse, PassTypeTemporary, PassTypeRecurrent:
		return true
	}
	return false
}

// PassStatus is the lifecycle state of an access pass. ACTIVE is the only
// initial state; USED, EXPIRED and REVOKED are terminal.
type PassStatus string

const (
	PassStatusActive  PassStatus = "ACTIVE"
	PassStatusUsed    PassStatus = "USED"
	PassStatusExpired PassStatus = "EXPIRED"
	PassStatusRevoked PassStatus = "REVOKED"
)

func (s PassStatus) Terminal() bool {
	return s != PassStatusActive
}

// PreRegistrationStatus is the lifecycle state of a pre-registered visitor.
type PreRegistrationStatus string

const (
	PreRegistrationStatusActive    PreRegistrationStatus = "ACTIVE"
	PreRegistrationStatusCancelled PreRegistrationStatus = "CANCELLED"
)

// LogAction is the kind of event recorded in the access log.
type LogAction string

const (
	LogActionEntry  LogAction = "ENTRY"
	LogActionExit   LogAction = "EXIT"
	LogActionDenied LogAction = "DENIED"
)

func (a LogAction) Valid() bool {
	switch a {
	case LogActionEntry, LogActionExit, LogActionDenied:
		return true
	}
	return false
}

// DocumentType is the national identity document presented by a visitor.
type DocumentType string

const (
	DocumentTypeCC       DocumentType = "CC"
	DocumentTypeCE       DocumentType = "CE"
	DocumentTypeTI       DocumentType = "TI"
	DocumentTypePassport DocumentType = "PASSPORT"
	DocumentTypeOther    DocumentType = "OTHER"
)

func (d DocumentType) Valid() bool {
	switch d {
	case DocumentTypeCC, DocumentTypeCE, DocumentTypeTI, DocumentTypePassport, DocumentTypeOther:
		return true
	}
	return false
}

// NotificationType is the severity of a resident notification.
type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "INFO"
	NotificationTypeWarning NotificationType = "WARNING"
)
