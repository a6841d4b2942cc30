package consumer

import (
	"context"
	"encoding/json"

	"go-payroll/internal/events"
	"go-payroll/internal/salaryslip"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePayslipRequested merender dokumen payslip untuk slip yang disetujui.
// Pesan yang gagal tidak di-commit sehingga dicoba ulang.
func ConsumePayslipRequested(
	ctx context.Context,
	reader *kafkago.Reader,
	slipService salaryslip.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payslip")
	log.Info("payslip consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payslip consumer stopped")
				return
			}
			log.Error("fetch payslip message failed", zap.Error(err))
			continue
		}

		var event events.PayslipRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payslip event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		_, err = slipService.GeneratePayslip(ctx, event.CompanyID, event.SlipID)
		if err != nil {
			log.Error("generate payslip failed",
				zap.String("slip_id", event.SlipID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payslip message failed", zap.Error(err))
			continue
		}

		log.Info("payslip generated",
			zap.String("slip_id", event.SlipID),
			zap.String("company_id", event.CompanyID),
		)
	}
}
