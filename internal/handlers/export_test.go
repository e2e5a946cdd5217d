package handlers

var SaveUpload = saveUpload
