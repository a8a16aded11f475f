package services

import apperrors "umroh-system/pkg/errors"

var errFileMissing = apperrors.New(apperrors.KindNotFound, "file tidak ditemukan")
