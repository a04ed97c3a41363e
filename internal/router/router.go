package router

import (
	"net/http"

	"github.com/senyabanana/tender-approval-service/internal/handlers"
	"github.com/senyabanana/tender-approval-service/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func InitRoutes(tenderHandler *handlers.TenderHandler, bidHandler *handlers.BidHandler, paymentHandler *handlers.PaymentHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ping", handlers.PingHandler)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/api/tenders", tenderHandler.GetTenders)
	mux.HandleFunc("/api/tenders/new", tenderHandler.CreateTender)
	mux.HandleFunc("/api/tenders/my", tenderHandler.GetMyTenders)
	mux.HandleFunc("GET /api/tenders/{tenderId}", tenderHandler.GetTenderByID)
	mux.HandleFunc("DELETE /api/tenders/{tenderId}", tenderHandler.DeleteTender)
	mux.HandleFunc("PUT /api/tenders/{tenderId}/status", tenderHandler.UpdateTenderStatus)
	mux.HandleFunc("POST /api/tenders/{tenderId}/approve", tenderHandler.ApproveTender)
	mux.HandleFunc("POST /api/tenders/{tenderId}/reject", tenderHandler.RejectTender)
	mux.HandleFunc("POST /api/tenders/{tenderId}/resubmit", tenderHandler.ResubmitTender)
	mux.HandleFunc("POST /api/tenders/{tenderId}/award", tenderHandler.AwardTender)

	mux.HandleFunc("/api/bids", bidHandler.GetBids)
	mux.HandleFunc("/api/bids/new", bidHandler.CreateBid)
	mux.HandleFunc("/api/bids/my", bidHandler.GetMyBids)
	mux.HandleFunc("GET /api/bids/{tenderId}/list", bidHandler.GetTenderBids)

	mux.HandleFunc("/api/payments/emd", paymentHandler.RecordEMDPayment)
	mux.HandleFunc("/api/payments/emd/check", paymentHandler.CheckEMDPayment)

	return metrics.Middleware(mux)
}
