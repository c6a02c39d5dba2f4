package audit

import "github.com/m04kA/SMC-ClinicBookingService/pkg/dbmetrics"

// DBExecutor переиспользуем интерфейс из dbmetrics
type DBExecutor = dbmetrics.DBExecutor
