package goToken

import "context"

const (
	auditEventTokenIssued          = "token_issued"
	auditEventTokenRefreshed       = "token_refreshed"
	auditEventRefreshReuseDetected = "refresh_reuse_detected"
	auditEventTokenRevoked         = "token_revoked"
	auditEventAccessRevoked        = "access_revoked"
	auditEventTokenRejected        = "token_rejected"
)

// AuditErrorCode is the stable, non-sensitive error label written to audit events.
type AuditErrorCode string

const (
	auditErrInvalidToken AuditErrorCode = "invalid_token"
	auditErrExpired      AuditErrorCode = "expired"
	auditErrUnavailable  AuditErrorCode = "store_unavailable"
	auditErrEncoding     AuditErrorCode = "encoding_failed"
	auditErrInternal     AuditErrorCode = "internal_error"
)

func (m *Manager) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID int64,
	tokenID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if m == nil || m.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: m.codec.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		TokenID:   tokenID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	m.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch KindOf(err) {
	case KindInvalidToken:
		return auditErrInvalidToken
	case KindExpired:
		return auditErrExpired
	case KindStoreUnavailable:
		return auditErrUnavailable
	case KindEncoding:
		return auditErrEncoding
	default:
		return auditErrInternal
	}
}
