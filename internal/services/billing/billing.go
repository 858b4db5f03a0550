// Package billing talks to the biller networks to confirm invoices before a
// bill payment settles. The partner connector is stubbed; the verification
// contract and failure semantics are final.
package billing

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"atlaspay/internal/apperr"
	"atlaspay/internal/models"
)

// Invoice is the biller's confirmation of an outstanding bill.
type Invoice struct {
	BillerReference string
	Amount          decimal.Decimal
	DueDate         time.Time
}

// Customer references accepted by the biller networks.
var customerRefRegex = regexp.MustCompile(`^[A-Za-z0-9\-]{6,20}$`)

type Provider struct {
	log *logrus.Entry
	now func() time.Time
}

func NewProvider(log *logrus.Logger) *Provider {
	return &Provider{
		log: log.WithField("component", "billing"),
		now: time.Now,
	}
}

// Verify confirms the bill with the biller before any settlement. A
// verification failure aborts the payment outright; nothing is recorded.
func (p *Provider) Verify(ctx context.Context, billerName string, billType models.BillType, customerRef string, amount decimal.Decimal) (*Invoice, error) {
	if strings.TrimSpace(billerName) == "" {
		return nil, apperr.BusinessRule("bill verification failed: unknown biller")
	}
	if !customerRefRegex.MatchString(customerRef) {
		return nil, apperr.BusinessRule("bill verification failed: invalid customer reference %q", customerRef)
	}
	if !amount.IsPositive() {
		return nil, apperr.BusinessRule("bill verification failed: no outstanding balance")
	}

	inv := &Invoice{
		BillerReference: "INV-" + strings.ToUpper(strings.ReplaceAll(customerRef, "-", "")),
		Amount:          amount,
		DueDate:         p.now().AddDate(0, 0, 15),
	}

	p.log.WithFields(logrus.Fields{
		"biller":    billerName,
		"bill_type": string(billType),
		"reference": inv.BillerReference,
		"amount":    amount.String(),
	}).Info("bill verified with biller")

	return inv, nil
}

// PayBill settles a verified invoice with the biller and returns the
// biller's payment reference. A returned error means the biller rejected or
// failed the settlement.
func (p *Provider) PayBill(ctx context.Context, invoice *Invoice, amount decimal.Decimal) (string, error) {
	ref := "PAY-" + strings.TrimPrefix(invoice.BillerReference, "INV-")

	p.log.WithFields(logrus.Fields{
		"invoice": invoice.BillerReference,
		"payment": ref,
		"amount":  amount.String(),
	}).Info("bill settled with biller")

	return ref, nil
}
