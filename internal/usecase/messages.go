package usecase

// Fixed replies for the manual trigger path. The not-available reply is
// deliberately identical whether one source or both are missing, so a
// requester cannot infer publisher state from the wording.
const (
	msgNotAvailable     = "目前尚未有最新的籌碼報告可供查詢，請稍後再試。"
	msgNoReportExpected = "今日為非交易日，無盤後籌碼報告。"
	msgProcessingFailed = "籌碼報告資料處理失敗，請稍後再試。"
)
