package events

import "time"

const PayslipRequestedTopic = "hr.payroll.payslip.requested.v1"

// PayslipRequestedEvent diterbitkan saat slip disetujui; consumer merender
// dokumen payslip secara asinkron.
type PayslipRequestedEvent struct {
	EventType   string    `json:"event_type"`
	SlipID      string    `json:"slip_id"`
	CompanyID   string    `json:"company_id"`
	RequestedBy string    `json:"requested_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
