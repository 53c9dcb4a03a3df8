package http

import (
	"context"
	"net/http"

	"github.com/DRSN-tech/qr-menu-backend/internal/usecase"
	"github.com/DRSN-tech/qr-menu-backend/pkg/logger"
	"github.com/google/uuid"
)

type ImportHandler struct {
	importUsecase usecase.ImportUC
	logger        logger.Logger
}

func NewImportHandler(importUsecase usecase.ImportUC, logger logger.Logger) *ImportHandler {
	return &ImportHandler{importUsecase: importUsecase, logger: logger}
}

// startImport
//
//	@Summary		Запуск импорта каталога Adisyo
//	@Description	Запускает импорт в фоне и сразу возвращает сессию. Прогресс доступен через GET /imports/{sessionID}
//	@Tags			imports
//	@Produce		json
//	@Param			businessID	path		string					true	"ID заведения (UUID)"
//	@Success		202			{object}	ImportSessionResponse	"Импорт запущен"
//	@Failure		400			{object}	ErrorResponse			"Некорректный ID"
//	@Failure		409			{object}	ErrorResponse			"Импорт уже выполняется"
//	@Failure		429			{object}	ErrorResponse			"Пауза после ограничения Adisyo"
//	@Router			/businesses/{businessID}/imports [post]
func (h *ImportHandler) startImport(w http.ResponseWriter, r *http.Request) {
	businessID, err := uuidParam(r, "businessID")
	if err != nil {
		h.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	info, err := h.importUsecase.StartImport(r.Context(), businessID)
	if err != nil {
		h.logger.Warnf("start import for business %s: %s", businessID, err.Error())
		WriteError(w, err)
		return
	}

	h.logger.Infof("import session %s started for business %s", info.ID, businessID)
	WriteSuccess(w, http.StatusAccepted, toImportSessionResponse(info))
}

// getCooldown
//
//	@Summary	Оставшаяся пауза импорта
//	@Tags		imports
//	@Produce	json
//	@Param		businessID	path		string				true	"ID заведения (UUID)"
//	@Success	200			{object}	CooldownResponse
//	@Failure	400			{object}	ErrorResponse
//	@Router		/businesses/{businessID}/imports/cooldown [get]
func (h *ImportHandler) getCooldown(w http.ResponseWriter, r *http.Request) {
	businessID, err := uuidParam(r, "businessID")
	if err != nil {
		WriteError(w, err)
		return
	}

	remaining, err := h.importUsecase.Cooldown(r.Context(), businessID)
	if err != nil {
		h.logger.Errorf(err, "get cooldown for business %s", businessID)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCooldownResponse(businessID, remaining))
}

// getSession
//
//	@Summary	Состояние сессии импорта
//	@Tags		imports
//	@Produce	json
//	@Param		sessionID	path		string	true	"ID сессии (UUID)"
//	@Success	200			{object}	ImportSessionResponse
//	@Failure	404			{object}	ErrorResponse	"Сессия не найдена"
//	@Router		/imports/{sessionID} [get]
func (h *ImportHandler) getSession(w http.ResponseWriter, r *http.Request) {
	h.sessionAction(w, r, "get", h.importUsecase.GetSession)
}

// cancelImport
//
//	@Summary		Отмена импорта
//	@Description	Импорт остановится на ближайшей границе категории или продукта
//	@Tags			imports
//	@Produce		json
//	@Param			sessionID	path		string	true	"ID сессии (UUID)"
//	@Success		200			{object}	ImportSessionResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse	"Недопустимый переход состояния"
//	@Router			/imports/{sessionID}/cancel [post]
func (h *ImportHandler) cancelImport(w http.ResponseWriter, r *http.Request) {
	h.sessionAction(w, r, "cancel", h.importUsecase.CancelImport)
}

// pauseImport
//
//	@Summary	Пауза импорта
//	@Tags		imports
//	@Produce	json
//	@Param		sessionID	path		string	true	"ID сессии (UUID)"
//	@Success	200			{object}	ImportSessionResponse
//	@Failure	409			{object}	ErrorResponse
//	@Router		/imports/{sessionID}/pause [post]
func (h *ImportHandler) pauseImport(w http.ResponseWriter, r *http.Request) {
	h.sessionAction(w, r, "pause", h.importUsecase.PauseImport)
}

// resumeImport
//
//	@Summary	Продолжение импорта после паузы
//	@Tags		imports
//	@Produce	json
//	@Param		sessionID	path		string	true	"ID сессии (UUID)"
//	@Success	200			{object}	ImportSessionResponse
//	@Failure	409			{object}	ErrorResponse
//	@Router		/imports/{sessionID}/resume [post]
func (h *ImportHandler) resumeImport(w http.ResponseWriter, r *http.Request) {
	h.sessionAction(w, r, "resume", h.importUsecase.ResumeImport)
}

// rollbackImport
//
//	@Summary		Откат импорта
//	@Description	Удаляет категории, созданные сессией, вместе с продуктами и ценами. Только для отменённых и упавших импортов
//	@Tags			imports
//	@Produce		json
//	@Param			sessionID	path		string	true	"ID сессии (UUID)"
//	@Success		200			{object}	RollbackResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Router			/imports/{sessionID}/rollback [post]
func (h *ImportHandler) rollbackImport(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuidParam(r, "sessionID")
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := h.importUsecase.RollbackImport(r.Context(), sessionID)
	if err != nil {
		h.logger.Warnf("rollback import %s: %s", sessionID, err.Error())
		WriteError(w, err)
		return
	}

	h.logger.Infof("import session %s rolled back, %d categories deleted", sessionID, res.DeletedCategories)
	WriteSuccess(w, http.StatusOK, toRollbackResponse(res))
}

func (h *ImportHandler) sessionAction(w http.ResponseWriter, r *http.Request, action string,
	fn func(ctx context.Context, id uuid.UUID) (*usecase.ImportSessionInfo, error)) {
	sessionID, err := uuidParam(r, "sessionID")
	if err != nil {
		WriteError(w, err)
		return
	}

	info, err := fn(r.Context(), sessionID)
	if err != nil {
		h.logger.Warnf("%s import %s: %s", action, sessionID, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toImportSessionResponse(info))
}
