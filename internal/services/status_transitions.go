package services

import "hireflow_backend/internal/models"

// roundStatus: 0 -> ROUND_1, 1 -> ROUND_2, остальные -> FINAL
func roundStatus(roundIndex int) models.ApplicationStatus {
	switch roundIndex {
	case 0:
		return models.StatusRound1
	case 1:
		return models.StatusRound2
	default:
		return models.StatusFinal
	}
}

// canPushEligible - массовый push колледжа только продвигает заявку вперед:
// из APPLIED в ELIGIBLE. Всё, что уже дальше по воронке, не трогается.
func canPushEligible(current models.ApplicationStatus) bool {
	return current.Rank() < models.StatusEligible.Rank()
}

// canOffer - из терминальных статусов оффер не выдается.
// OFFERED -> OFFERED означает перевыпуск письма.
func canOffer(current models.ApplicationStatus) bool {
	return current.IsValid() && !current.IsTerminal()
}

// acknowledgeTarget - статус заявки после ответа студента на оффер
func acknowledgeTarget(accept bool) (models.ApplicationStatus, models.OfferStatus) {
	if accept {
		return models.StatusAccepted, models.OfferStatusAcknowledged
	}
	return models.StatusRejected, models.OfferStatusRejected
}

// canConfirmPlacement - размещение фиксируется только после оффера
func canConfirmPlacement(current models.ApplicationStatus) bool {
	return current == models.StatusOffered || current == models.StatusAccepted
}
