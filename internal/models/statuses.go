package models

type UserRole string
type ApplicationStatus string
type DriveStatus string
type DriveMode string
type RoundType string
type RoundMode string
type ParticipationStatus string
type OfferStatus string
type JoiningStatus string
type Actor string
type NotificationChannel string
type NotificationType string
type DeliveryStatus string

const (
	UserRoleStudent UserRole = "student"
	UserRoleCollege UserRole = "college"
	UserRoleCompany UserRole = "company"

	StatusApplied     ApplicationStatus = "APPLIED"
	StatusEligible    ApplicationStatus = "ELIGIBLE"
	StatusShortlisted ApplicationStatus = "SHORTLISTED"
	StatusRound1      ApplicationStatus = "ROUND_1"
	StatusRound2      ApplicationStatus = "ROUND_2"
	StatusFinal       ApplicationStatus = "FINAL"
	StatusOffered     ApplicationStatus = "OFFERED"
	StatusAccepted    ApplicationStatus = "ACCEPTED"
	StatusRejected    ApplicationStatus = "REJECTED"
	StatusWithdrawn   ApplicationStatus = "WITHDRAWN"
	StatusAbsent      ApplicationStatus = "ABSENT"
	StatusNoOffer     ApplicationStatus = "NO_OFFER"

	DriveStatusDraft  DriveStatus = "draft"
	DriveStatusActive DriveStatus = "active"
	DriveStatusClosed DriveStatus = "closed"

	DriveModeOnCampus DriveMode = "on-campus"
	DriveModeVirtual  DriveMode = "virtual"
	DriveModePooled   DriveMode = "pooled"

	RoundTypeTest      RoundType = "Test"
	RoundTypeInterview RoundType = "Interview"
	RoundTypeTechnical RoundType = "Technical"
	RoundTypeHR        RoundType = "HR"
	RoundTypeCustom    RoundType = "Custom"

	RoundModeOnline  RoundMode = "online"
	RoundModeOffline RoundMode = "offline"
	RoundModeHybrid  RoundMode = "hybrid"

	ParticipationInvited   ParticipationStatus = "Invited"
	ParticipationAccepted  ParticipationStatus = "Accepted"
	ParticipationRejected  ParticipationStatus = "Rejected"
	ParticipationWithdrawn ParticipationStatus = "Withdrawn"

	OfferStatusIssued       OfferStatus = "issued"
	OfferStatusAcknowledged OfferStatus = "acknowledged"
	OfferStatusRejected     OfferStatus = "rejected"

	JoiningPending   JoiningStatus = "Pending"
	JoiningJoined    JoiningStatus = "Joined"
	JoiningNotJoined JoiningStatus = "Not Joined"

	ActorStudent Actor = "student"
	ActorCollege Actor = "college"
	ActorCompany Actor = "company"

	ChannelEmail NotificationChannel = "email"
	ChannelInApp NotificationChannel = "in-app"

	NotificationCritical      NotificationType = "critical"
	NotificationInformational NotificationType = "informational"
	NotificationBroadcast     NotificationType = "broadcast"

	DeliveryPending DeliveryStatus = "pending"
	DeliverySending DeliveryStatus = "sending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
)

// ApplicationStatuses - все статусы в порядке обычного продвижения
var ApplicationStatuses = []ApplicationStatus{
	StatusApplied, StatusEligible, StatusShortlisted, StatusRound1, StatusRound2, StatusFinal,
	StatusOffered, StatusAccepted, StatusRejected, StatusWithdrawn, StatusAbsent, StatusNoOffer,
}

// Rank - позиция статуса в воронке. Все терминальные статусы имеют одинаковый ранг.
func (s ApplicationStatus) Rank() int {
	switch s {
	case StatusApplied:
		return 0
	case StatusEligible:
		return 1
	case StatusShortlisted:
		return 2
	case StatusRound1:
		return 3
	case StatusRound2:
		return 4
	case StatusFinal:
		return 5
	case StatusOffered:
		return 6
	case StatusAccepted, StatusRejected, StatusWithdrawn, StatusAbsent, StatusNoOffer:
		return 7
	default:
		return -1
	}
}

func (s ApplicationStatus) IsValid() bool {
	return s.Rank() >= 0
}

// IsTerminal - из терминального статуса заявка больше не двигается
func (s ApplicationStatus) IsTerminal() bool {
	return s.Rank() == 7
}

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleStudent, UserRoleCollege, UserRoleCompany:
		return true
	}
	return false
}

func (j JoiningStatus) IsValid() bool {
	switch j {
	case JoiningPending, JoiningJoined, JoiningNotJoined:
		return true
	}
	return false
}
