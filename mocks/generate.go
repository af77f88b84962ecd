package mocks

//go:generate mockgen -destination=./mock_broker.go -package=mocks invest_bot/internal/broker Broker
//go:generate mockgen -destination=./mock_notifier.go -package=mocks invest_bot/internal/notify Notifier
